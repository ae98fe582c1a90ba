package opj

import (
	"fmt"
	"time"
)

// NodeKind tells folders from the windows filed in them.
type NodeKind int

const (
	NodeFolder NodeKind = iota
	NodeObject
)

// TreeNode is a folder of the project explorer or a window filed in one.
type TreeNode struct {
	Name string
	Kind NodeKind

	// Set for NodeObject.
	ObjectKind ObjectKind
	ObjectID   ObjectID

	// Set for NodeFolder.
	Created  time.Time
	Modified time.Time

	Children []*TreeNode
}

// Walk calls fn for n and every node below it, depth first. Depth is 0 for n.
// A non-nil error from fn stops the walk and is returned.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int) error) error {
	return n.walk(fn, 0)
}

func (n *TreeNode) walk(fn func(*TreeNode, int) error, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Folder layout, relative to the folder start.
const (
	folderCreated  = 5 + 0x10
	folderModified = 5 + 0x18
	folderNameSize = 0x2B
	folderName     = 0x30
	folderMinSize  = folderName + 1 + 5 + 5 + 10 + 5
	treeObjectSize = 5 + 8 + 1 + 5 + 5
	treeObjectTag  = 2
	treeObjectID   = 4
	treeNoteTag    = 0x10
)

func (d *decoder) readProjectTree(start int) {
	root, _, err := d.readFolder(start, 0)
	if err != nil {
		d.reportErr(err, "project tree")
	}
	d.tree = root
}

// readFolder reads the folder at p with its objects and subfolders and
// returns the offset after it. On error the folder read so far is still
// returned.
func (d *decoder) readFolder(p, depth int) (*TreeNode, int, error) {
	if depth >= d.maxDepth {
		return nil, p, &SectionError{Entity: "project tree", Offset: p,
			Err: fmt.Errorf("folders nested deeper than %d", d.maxDepth)}
	}
	b := d.cur.at(p)
	created := b.f64(folderCreated)
	modified := b.f64(folderModified)
	nameSize := int(b.i32(folderNameSize))
	if b.err == nil && (nameSize < 0 || nameSize > len(d.data)) {
		return nil, p, &SectionError{Entity: "project tree", Offset: p, Err: truncatedAt(p+folderName, nameSize)}
	}
	name := d.cname(b.raw(folderName, nameSize))
	if b.err != nil {
		return nil, p, &SectionError{Entity: "project tree", Offset: p, Err: b.err}
	}
	node := &TreeNode{
		Name:     name,
		Kind:     NodeFolder,
		Created:  d.timestamp(created, name),
		Modified: d.timestamp(modified, name),
	}

	pos := p + folderName + nameSize + 1 + 5 + 5
	count, err := d.boundedCount(pos, treeObjectSize, name)
	if err != nil {
		return node, pos, err
	}
	pos += 10
	for i := 0; i < count; i++ {
		pos += 5
		ob := d.cur.at(pos)
		tag := ob.u8(treeObjectTag)
		id := int(ob.i32(treeObjectID))
		if ob.err != nil {
			return node, pos, &SectionError{Entity: name, Offset: pos, Err: ob.err}
		}
		if leaf := d.treeLeaf(tag, id, pos, name); leaf != nil {
			node.Children = append(node.Children, leaf)
		}
		pos += 8 + 1 + 5 + 5
	}

	subfolders, err := d.boundedCount(pos, folderMinSize, name)
	if err != nil {
		return node, pos, err
	}
	pos += 5
	for i := 0; i < subfolders; i++ {
		child, end, err := d.readFolder(pos, depth+1)
		if child != nil {
			node.Children = append(node.Children, child)
		}
		if err != nil {
			return node, end, err
		}
		pos = end
	}
	return node, pos, nil
}

// boundedCount reads a count at pos and rejects counts that could not fit
// in the rest of the input at minSize bytes per item.
func (d *decoder) boundedCount(pos, minSize int, entity string) (int, error) {
	b := d.cur.at(pos)
	n := int(b.i32(0))
	if b.err != nil {
		return 0, &SectionError{Entity: entity, Offset: pos, Err: b.err}
	}
	if n < 0 || n > (len(d.data)-pos)/minSize {
		return 0, &SectionError{Entity: entity, Offset: pos, Err: fmt.Errorf("count %d exceeds the remaining input", n)}
	}
	return n, nil
}

// treeLeaf resolves one filed object. Notes are filed by their position in
// the notes list, every other window by object id.
func (d *decoder) treeLeaf(tag byte, id, offset int, folder string) *TreeNode {
	if tag == treeNoteTag {
		if id < 0 || id >= len(d.notes) {
			d.report(UnresolvedReference, offset, folder, "note %d does not exist", id)
			return nil
		}
		n := d.notes[id]
		return &TreeNode{Name: n.Name, Kind: NodeObject, ObjectKind: ObjectNote, ObjectID: n.ObjectID}
	}
	ref, ok := d.objectRefs.resolve(ObjectID(id))
	if !ok {
		d.report(UnresolvedReference, offset, folder, "object %d does not exist", id)
		return nil
	}
	return &TreeNode{Name: ref.Name, Kind: NodeObject, ObjectKind: ref.Kind, ObjectID: ObjectID(id)}
}
