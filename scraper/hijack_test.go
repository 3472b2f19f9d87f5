package scraper

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
)

func defaultBlocklist() blocklist {
	return newBlocklist([]string{"Image", "Media", "Font"})
}

func TestBlocklist_AbortsHeavyResourceTypes(t *testing.T) {
	b := defaultBlocklist()

	for _, rt := range []proto.NetworkResourceType{
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeMedia,
		proto.NetworkResourceTypeFont,
	} {
		assert.True(t, b.blocks(rt), "expected %s to be aborted", rt)
	}
}

func TestBlocklist_AllowsDocumentAndScript(t *testing.T) {
	b := defaultBlocklist()

	for _, rt := range []proto.NetworkResourceType{
		proto.NetworkResourceTypeDocument,
		proto.NetworkResourceTypeScript,
		proto.NetworkResourceTypeXHR,
		proto.NetworkResourceTypeStylesheet,
	} {
		assert.False(t, b.blocks(rt), "expected %s to pass through", rt)
	}
}

func TestBlocklist_PageLoadCounts(t *testing.T) {
	// Simulated page load: each entry is one sub-request's resource type.
	pageLoad := []proto.NetworkResourceType{
		proto.NetworkResourceTypeDocument,
		proto.NetworkResourceTypeScript,
		proto.NetworkResourceTypeScript,
		proto.NetworkResourceTypeStylesheet,
		proto.NetworkResourceTypeXHR,
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeMedia,
		proto.NetworkResourceTypeFont,
	}

	b := defaultBlocklist()
	allowed, aborted := 0, 0
	for _, rt := range pageLoad {
		if b.blocks(rt) {
			aborted++
		} else {
			allowed++
		}
	}

	assert.Equal(t, 5, allowed)
	assert.Equal(t, 5, aborted)
}

func TestNewBlocklist_IgnoresUnknownNames(t *testing.T) {
	b := newBlocklist([]string{"Image", "Hologram"})
	assert.Len(t, b, 1)
	assert.True(t, b.blocks(proto.NetworkResourceTypeImage))
}

func TestNewBlocklist_EmptyMeansInterceptionDisabled(t *testing.T) {
	b := newBlocklist(nil)
	assert.Empty(t, b)
	// setupHijack returns nil for an empty blocklist; no router is mounted.
	assert.Nil(t, setupHijack(nil, b))
}
