package hdf5

import (
	"fmt"
	"path"

	"github.com/robert-malhotra/go-datx/internal/btree"
	"github.com/robert-malhotra/go-datx/internal/heap"
	"github.com/robert-malhotra/go-datx/internal/message"
	"github.com/robert-malhotra/go-datx/internal/object"
)

// Group represents an HDF5 group.
type Group struct {
	file   *File
	path   string
	header *object.Header
	addr   uint64

	// Write support fields
	parent       *Group
	pendingLinks []*message.Link
	pendingAttrs []*message.Attribute
}

// linkResolution holds the result of resolving a link.
type linkResolution struct {
	address   uint64
	isDataset bool
	file      *File // nil for the same file
}

// Name returns the last component of the group path.
func (g *Group) Name() string {
	if g.path == "/" {
		return "/"
	}
	return path.Base(g.path)
}

// Path returns the full path to this group.
func (g *Group) Path() string {
	return g.path
}

// Open opens a group or dataset by relative path. The result is a *Group
// or a *Dataset.
func (g *Group) Open(relativePath string) (any, error) {
	parts := splitPath(relativePath)
	if len(parts) == 0 {
		return g, nil
	}

	current := g
	visited := make(map[string]bool)

	for i, name := range parts {
		res, err := current.findChild(name, visited)
		if err != nil {
			return nil, fmt.Errorf("finding %q: %w", name, err)
		}

		target := current.file
		if res.file != nil {
			target = res.file
		}
		fullPath := path.Join(current.path, name)

		if i == len(parts)-1 {
			if res.isDataset {
				return target.openDatasetAt(res.address, fullPath)
			}
			return target.openGroupAt(res.address, fullPath)
		}
		if res.isDataset {
			return nil, fmt.Errorf("%q: %w", fullPath, ErrNotDataset)
		}
		next, err := target.openGroupAt(res.address, fullPath)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func (g *Group) findChild(name string, visited map[string]bool) (*linkResolution, error) {
	for _, msg := range g.header.GetMessages(message.TypeLink) {
		link := msg.(*message.Link)
		if link.Name == name {
			return g.resolveLink(link, visited)
		}
	}

	if symTable := g.symbolTable(); symTable != nil {
		return g.findChildV1(name, symTable, visited)
	}
	return nil, ErrNotFound
}

// symbolTable returns the v1 symbol table of the group, falling back to the
// superblock scratch pad for the root group.
func (g *Group) symbolTable() *message.SymbolTable {
	if msg := g.header.GetMessage(message.TypeSymbolTable); msg != nil {
		return msg.(*message.SymbolTable)
	}
	sb := g.file.superblock
	if g.path == "/" && sb.RootGroupBTreeAddress != 0 {
		return &message.SymbolTable{
			BTreeAddress:     sb.RootGroupBTreeAddress,
			LocalHeapAddress: sb.RootGroupLocalHeapAddress,
		}
	}
	return nil
}

func (g *Group) resolveLink(link *message.Link, visited map[string]bool) (*linkResolution, error) {
	switch {
	case link.IsHard():
		isDataset, err := g.isDataset(link.ObjectAddress)
		if err != nil {
			return nil, err
		}
		return &linkResolution{address: link.ObjectAddress, isDataset: isDataset}, nil

	case link.IsSoft():
		return g.followSoftLink(link.SoftLinkValue, visited)

	case link.IsExternal():
		return g.file.resolveExternalLink(link.ExternalFile, link.ExternalPath, visited)

	default:
		return nil, fmt.Errorf("%w: link type %d", ErrUnsupported, link.LinkType)
	}
}

func (g *Group) followSoftLink(target string, visited map[string]bool) (*linkResolution, error) {
	if len(visited) >= MaxLinkDepth {
		return nil, ErrLinkDepth
	}
	if visited[target] {
		return nil, fmt.Errorf("circular soft link detected: %s", target)
	}
	visited[target] = true
	return g.file.findByAbsolutePath(target, visited)
}

func (g *Group) findChildV1(name string, symTable *message.SymbolTable, visited map[string]bool) (*linkResolution, error) {
	entries, err := g.entriesV1(symTable)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Name != name {
			continue
		}
		if entry.LinkType == 1 {
			return g.followSoftLink(entry.SoftLinkValue, visited)
		}
		isDataset, err := g.isDataset(entry.ObjectAddress)
		if err != nil {
			return nil, err
		}
		return &linkResolution{address: entry.ObjectAddress, isDataset: isDataset}, nil
	}
	return nil, ErrNotFound
}

func (g *Group) entriesV1(symTable *message.SymbolTable) ([]btree.GroupEntry, error) {
	localHeap, err := heap.ReadLocalHeap(g.file.reader, symTable.LocalHeapAddress)
	if err != nil {
		return nil, fmt.Errorf("reading local heap: %w", err)
	}
	entries, err := btree.ReadGroupEntries(g.file.reader, symTable.BTreeAddress, localHeap)
	if err != nil {
		return nil, fmt.Errorf("reading B-tree: %w", err)
	}
	return entries, nil
}

// isDataset reports whether the object at address carries a dataspace.
func (g *Group) isDataset(address uint64) (bool, error) {
	header, err := object.Read(g.file.reader, address)
	if err != nil {
		return false, err
	}
	return header.GetMessage(message.TypeDataspace) != nil, nil
}

// Members returns the names of the groups and datasets linked from this
// group, in storage order.
func (g *Group) Members() ([]string, error) {
	var names []string
	for _, msg := range g.header.GetMessages(message.TypeLink) {
		names = append(names, msg.(*message.Link).Name)
	}
	if len(names) > 0 {
		return names, nil
	}

	symTable := g.symbolTable()
	if symTable == nil {
		return nil, nil
	}
	entries, err := g.entriesV1(symTable)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names, nil
}

// Attrs returns the attributes of this group in storage order.
func (g *Group) Attrs() []*Attribute {
	return attributes(g.header, g.file)
}

// Attr returns an attribute by name, or nil if not found.
func (g *Group) Attr(name string) *Attribute {
	return findAttribute(g.header, g.file, name)
}

func attributes(h *object.Header, f *File) []*Attribute {
	msgs := h.GetMessages(message.TypeAttribute)
	attrs := make([]*Attribute, 0, len(msgs))
	for _, msg := range msgs {
		attrs = append(attrs, &Attribute{msg: msg.(*message.Attribute), reader: f.reader})
	}
	return attrs
}

func findAttribute(h *object.Header, f *File, name string) *Attribute {
	for _, msg := range h.GetMessages(message.TypeAttribute) {
		attr := msg.(*message.Attribute)
		if attr.Name == name {
			return &Attribute{msg: attr, reader: f.reader}
		}
	}
	return nil
}
