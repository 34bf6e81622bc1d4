package journalcrop

import (
	"github.com/pkg/errors"

	"github.com/HinsChueng/journalcrop/tree"
)

// Heading is the value held by an outline node.
type Heading struct {
	Level HeadingLevel
	Text  string
	Size  int      // Rounded font size; 0 for the document root and placeholders
	Run   *TextRun // Source run; nil for synthesized nodes
}

// IsPlaceholder reports whether the heading was synthesized to fill a gap.
func (h Heading) IsPlaceholder() bool {
	return h.Run == nil && h.Level != LevelDocument
}

// OutlineBuilder reconstructs the heading hierarchy of one document from its
// text runs, fed in reading order.
type OutlineBuilder struct {
	classifier   Classifier
	headerHeight float64

	tree     *tree.Tree[Heading]
	prev     *tree.Node[Heading]
	prevSeq  int
	observed map[HeadingLevel]bool
}

// NewOutlineBuilder creates a builder with an empty document root.
func NewOutlineBuilder(cfg Config) *OutlineBuilder {
	return &OutlineBuilder{
		classifier: Classifier{
			Sizes:          cfg.Headings,
			KeepThirdLevel: cfg.KeepThirdLevel,
		},
		headerHeight: cfg.HeaderHeight,
		tree:         tree.New(tree.NewNode(Heading{Level: LevelDocument})),
		prevSeq:      -1,
		observed:     make(map[HeadingLevel]bool),
	}
}

// Tree returns the outline tree.
func (b *OutlineBuilder) Tree() *tree.Tree[Heading] {
	return b.tree
}

// Add classifies a run and places it in the outline.
// It reports whether the run was a heading. Runs in the header band and runs
// whose size matches no heading level are ignored. On error the outline is
// left as it was before the run.
func (b *OutlineBuilder) Add(run TextRun) (bool, error) {
	if run.Box.Y1 <= b.headerHeight {
		return false, nil
	}
	level, ok := b.classifier.Classify(run.Size)
	if !ok {
		return false, nil
	}

	var err error
	switch {
	case level == LevelTitle:
		err = b.setTitle(run)
	case b.prev == nil:
		err = b.startChain(level, run)
	default:
		err = b.adjustLevel(level, run)
	}
	if err != nil {
		return true, errors.Wrapf(err, "failed to place %s heading %q", level, run.Text)
	}

	b.observed[level] = true
	b.prevSeq = run.Seq
	return true, nil
}

func headingNode(level HeadingLevel, run TextRun) *tree.Node[Heading] {
	return tree.NewNode(Heading{Level: level, Text: run.Text, Size: run.Size, Run: &run})
}

func placeholder(level HeadingLevel) *tree.Node[Heading] {
	return tree.NewNode(Heading{Level: level})
}

// setTitle writes the title into the root, continuing it when the root
// already carries a title of the same size.
func (b *OutlineBuilder) setTitle(run TextRun) error {
	root := b.tree.Root()
	err := b.tree.Update(root, func(h *Heading) {
		if h.Size == run.Size {
			h.Text += run.Text
			return
		}
		*h = Heading{Level: LevelTitle, Text: run.Text, Size: run.Size, Run: &run}
	})
	if err != nil {
		return err
	}
	b.prev = root
	return nil
}

// startChain places the first section heading, synthesizing the missing
// ancestors between the root and the heading's level.
func (b *OutlineBuilder) startChain(level HeadingLevel, run TextRun) error {
	parent, err := b.fill(b.tree.Root(), LevelPrimary, level)
	if err != nil {
		return err
	}
	node := headingNode(level, run)
	if err := b.tree.Insert(parent, node); err != nil {
		return err
	}
	b.prev = node
	return nil
}

// fill inserts placeholder levels [from, to) below parent and returns the deepest.
func (b *OutlineBuilder) fill(parent *tree.Node[Heading], from, to HeadingLevel) (*tree.Node[Heading], error) {
	for l := from; l < to; l++ {
		ph := placeholder(l)
		if err := b.tree.Insert(parent, ph); err != nil {
			return nil, err
		}
		parent = ph
	}
	return parent, nil
}

// adjustLevel places a section heading relative to the previously touched node.
func (b *OutlineBuilder) adjustLevel(level HeadingLevel, run TextRun) error {
	prev := b.prev
	switch {
	case prev.Value.Size == run.Size:
		return b.sameLevel(level, run)
	case prev.Value.Size > run.Size:
		return b.descend(level, run)
	default:
		return b.ascend(level, run)
	}
}

func (b *OutlineBuilder) sameLevel(level HeadingLevel, run TextRun) error {
	if run.Seq == b.prevSeq+1 {
		// The heading wrapped onto another run; keep one node.
		return b.tree.Update(b.prev, func(h *Heading) {
			h.Text += run.Text
		})
	}

	node := headingNode(level, run)
	if err := b.tree.InsertAfter(b.prev, node); err != nil {
		return err
	}
	b.prev = node
	return nil
}

// descend places a heading below the previous node. A level never seen before
// gets placeholders for the skipped levels; a level seen before first follows
// the previous node's last-child chain so existing structure is reused.
func (b *OutlineBuilder) descend(level HeadingLevel, run TextRun) error {
	parent := b.prev
	steps := int(level - parent.Value.Level - 1)
	if b.observed[level] {
		for steps > 0 {
			last := parent.LastChild()
			if last == nil {
				break
			}
			parent = last
			steps--
		}
	}

	parent, err := b.fill(parent, level-HeadingLevel(steps), level)
	if err != nil {
		return err
	}
	node := headingNode(level, run)
	if err := b.tree.Insert(parent, node); err != nil {
		return err
	}
	b.prev = node
	return nil
}

// ascend climbs from the previous node towards the root. The first ancestor
// without text takes the heading over; otherwise the heading becomes the
// sibling following the last ancestor visited. The root never takes over a
// section heading.
func (b *OutlineBuilder) ascend(level HeadingLevel, run TextRun) error {
	root := b.tree.Root()
	visits := int(b.prev.Value.Level - level)
	if visits < 1 {
		visits = 1
	}

	node := b.prev
	var last *tree.Node[Heading]
	for i := 0; i < visits; i++ {
		parent, _, err := b.tree.FindParent(node)
		if err != nil {
			return err
		}
		if parent == root {
			break
		}
		if parent.Value.Text == "" {
			err := b.tree.Update(parent, func(h *Heading) {
				*h = Heading{Level: level, Text: run.Text, Size: run.Size, Run: &run}
			})
			if err != nil {
				return err
			}
			b.prev = parent
			return nil
		}
		last = parent
		node = parent
	}

	n := headingNode(level, run)
	var err error
	if last == nil {
		err = b.tree.Insert(root, n)
	} else {
		err = b.tree.InsertAfter(last, n)
	}
	if err != nil {
		return err
	}
	b.prev = n
	return nil
}

// Headings counts the headings placed from runs, the title included.
func (b *OutlineBuilder) Headings() int {
	count := 0
	for _, n := range b.tree.LevelOrder() {
		if n.Value.Run != nil {
			count++
		}
	}
	return count
}

// Mapping serializes the outline as {title: {heading: {...}}}.
func (b *OutlineBuilder) Mapping() *tree.Mapping {
	m := tree.NewMapping()
	m.Put(b.tree.Root().Value.Text, b.tree.ToMapping(func(h Heading) string {
		return h.Text
	}))
	return m
}
