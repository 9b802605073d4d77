// Package icon memoizes icon directives by icon identifier.
//
// Icons are built from a [Template] the first time an identifier is seen and
// returned by pointer on every later lookup, so a painter can use pointer
// identity to skip re-uploading an image. Entries are never evicted.
package icon

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-spatial/tilestyle/pkg/style"
)

// Defaults for [Template], pointing at the Maki icon set.
const (
	DefaultBase   = "https://cdn.rawgit.com/mapbox/maki/master/icons/"
	DefaultSuffix = "-15.svg"
	DefaultSize   = 15
)

// Template builds icon resource URLs as Base + id + Suffix.
type Template struct {
	// Base is prepended to the icon identifier.
	Base string `json:"base,omitempty" jsonschema:"title=URL Base"`
	// Suffix is appended to the icon identifier.
	Suffix string `json:"suffix,omitempty" jsonschema:"title=URL Suffix"`
	// Size is the width and height of the icon image in pixels.
	Size int `json:"size,omitempty" jsonschema:"title=Image Size,minimum=1"`
}

// DefaultTemplate returns the Maki 15px icon template.
func DefaultTemplate() Template {
	return Template{
		Base:   DefaultBase,
		Suffix: DefaultSuffix,
		Size:   DefaultSize,
	}
}

// EnsureDefaults fills unset fields from [DefaultTemplate].
func (t *Template) EnsureDefaults() {
	d := DefaultTemplate()
	if t.Base == "" {
		t.Base = d.Base
	}
	if t.Suffix == "" {
		t.Suffix = d.Suffix
	}
	if t.Size <= 0 {
		t.Size = d.Size
	}
}

// URL returns the resource URL for id. Unknown identifiers are not detected.
func (t Template) URL(id string) string {
	return t.Base + id + t.Suffix
}

// New builds a new icon directive for id.
func (t Template) New(id string) *style.Icon {
	return &style.Icon{
		ID:   id,
		Src:  t.URL(id),
		Size: [2]int{t.Size, t.Size},
	}
}

func (t Template) String() string {
	return t.URL("{id}") + " (" + strconv.Itoa(t.Size) + "px)"
}

// Source returns the icon directive for an identifier.
type Source interface {
	Get(id string) *style.Icon
	Len() int
}

// Cache is a [Source] owned by a single resolver. It is not safe for
// concurrent use.
type Cache struct {
	entries  map[string]*style.Icon
	template Template
}

// NewCache creates a [Cache].
func NewCache(t Template) *Cache {
	t.EnsureDefaults()

	return &Cache{
		entries:  map[string]*style.Icon{},
		template: t,
	}
}

// Get returns the cached icon for id, creating it on first use.
func (c *Cache) Get(id string) *style.Icon {
	if ic, ok := c.entries[id]; ok {
		return ic
	}

	ic := c.template.New(id)
	c.entries[id] = ic

	return ic
}

// Len returns the number of cached icons.
func (c *Cache) Len() int {
	return len(c.entries)
}

// SharedCache is a [Source] that can be shared by resolvers running on
// different goroutines. Inserts are synchronized; lookups of existing entries
// do not lock.
type SharedCache struct {
	entries  sync.Map
	template Template
	n        atomic.Int64
}

// NewSharedCache creates a [SharedCache].
func NewSharedCache(t Template) *SharedCache {
	t.EnsureDefaults()

	return &SharedCache{template: t}
}

// Get returns the cached icon for id, creating it on first use. Concurrent
// first lookups of the same id all observe the same instance.
func (c *SharedCache) Get(id string) *style.Icon {
	if v, ok := c.entries.Load(id); ok {
		return v.(*style.Icon) //nolint:forcetypeassert // Only *style.Icon is stored.
	}

	v, loaded := c.entries.LoadOrStore(id, c.template.New(id))
	if !loaded {
		c.n.Add(1)
	}

	return v.(*style.Icon) //nolint:forcetypeassert // Only *style.Icon is stored.
}

// Len returns the number of cached icons.
func (c *SharedCache) Len() int {
	return int(c.n.Load())
}
