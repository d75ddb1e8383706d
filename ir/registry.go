package ir

import (
	"strconv"
)

// TypeCache owns the array and unresolved types created during one
// compile. Resolved arrays are interned so that structurally identical
// arrays share a single *ArrayType.
type TypeCache struct {
	arrays     []*ArrayType
	unresolved []*UnresolvedType
	interned   map[string]*ArrayType
	keyBuf     []byte // reusable buffer for building type keys
}

// NewTypeCache creates an empty cache.
func NewTypeCache() *TypeCache {
	return &TypeCache{
		arrays:     make([]*ArrayType, 0, 8),
		unresolved: make([]*UnresolvedType, 0, 16),
		interned:   make(map[string]*ArrayType, 8),
		keyBuf:     make([]byte, 0, 32),
	}
}

// Unresolved records a named type to be looked up later.
func (c *TypeCache) Unresolved(loc Location, name string) *UnresolvedType {
	t := &UnresolvedType{Loc: loc, Name: name}
	c.unresolved = append(c.unresolved, t)
	return t
}

// Array creates an array type over elem whose size is given by sizeExpr.
func (c *TypeCache) Array(loc Location, elem Type, sizeExpr Expr) *ArrayType {
	t := &ArrayType{Loc: loc, Elem: elem, SizeExpr: sizeExpr}
	c.arrays = append(c.arrays, t)
	return t
}

// ArrayOf creates an array type named by its element type's name.
func (c *TypeCache) ArrayOf(loc Location, elemName string, sizeExpr Expr) *ArrayType {
	return c.Array(loc, c.Unresolved(loc, elemName), sizeExpr)
}

// intern returns the canonical instance for a resolved array.
func (c *TypeCache) intern(t *ArrayType) *ArrayType {
	key := c.arrayKey(t)
	if existing, ok := c.interned[key]; ok {
		return existing
	}
	c.interned[key] = t
	return t
}

// arrayKey creates a unique key for a resolved array from its element
// name and size.
func (c *TypeCache) arrayKey(t *ArrayType) string {
	b := c.keyBuf[:0]
	b = append(b, "array:"...)
	b = append(b, t.Elem.TypeName()...)
	b = append(b, ':')
	b = strconv.AppendInt(b, int64(t.size), 10)
	c.keyBuf = b
	return string(b)
}

// Count returns the number of types the cache has created.
func (c *TypeCache) Count() int {
	return len(c.arrays) + len(c.unresolved)
}

// Clear drops every owned type.
func (c *TypeCache) Clear() {
	c.arrays = c.arrays[:0]
	c.unresolved = c.unresolved[:0]
	clear(c.interned)
}
