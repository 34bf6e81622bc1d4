package journalcrop

import "github.com/pkg/errors"

// HeadingLevel is the rank of a heading in the outline.
type HeadingLevel int

const (
	LevelDocument   HeadingLevel = iota - 1 // Synthetic root, below Title
	LevelTitle                              // Article title
	LevelPrimary                            // 一级标题
	LevelSecondary                          // 二级标题
	LevelThirdLevel                         // 三级标题
)

// String returns a string representation of the heading level
func (l HeadingLevel) String() string {
	switch l {
	case LevelDocument:
		return "document"
	case LevelTitle:
		return "title"
	case LevelPrimary:
		return "primary"
	case LevelSecondary:
		return "secondary"
	case LevelThirdLevel:
		return "third"
	default:
		return "unknown"
	}
}

// HeadingSizes binds each heading level to its nominal (rounded) font size.
type HeadingSizes struct {
	Title      int `yaml:"title"`
	Primary    int `yaml:"primary"`
	Secondary  int `yaml:"secondary"`
	ThirdLevel int `yaml:"third"`
}

// DefaultHeadingSizes returns the sizes used by the journal's template.
func DefaultHeadingSizes() HeadingSizes {
	return HeadingSizes{
		Title:      28,
		Primary:    16,
		Secondary:  14,
		ThirdLevel: 11,
	}
}

// Validate checks that sizes strictly decrease from Title to ThirdLevel.
func (s HeadingSizes) Validate() error {
	if s.ThirdLevel <= 0 {
		return errors.Errorf("heading sizes must be positive, got third=%d", s.ThirdLevel)
	}
	if !(s.Title > s.Primary && s.Primary > s.Secondary && s.Secondary > s.ThirdLevel) {
		return errors.Errorf("heading sizes must strictly decrease, got title=%d primary=%d secondary=%d third=%d",
			s.Title, s.Primary, s.Secondary, s.ThirdLevel)
	}
	return nil
}

// Size returns the nominal font size bound to a level, or 0 for the document level.
func (s HeadingSizes) Size(level HeadingLevel) int {
	switch level {
	case LevelTitle:
		return s.Title
	case LevelPrimary:
		return s.Primary
	case LevelSecondary:
		return s.Secondary
	case LevelThirdLevel:
		return s.ThirdLevel
	default:
		return 0
	}
}

// Classifier maps rounded font sizes to heading levels.
type Classifier struct {
	Sizes          HeadingSizes
	KeepThirdLevel bool
}

// Classify returns the heading level for a rounded font size.
// Anything at least as large as the title size is a title; the other
// levels require an exact match.
func (c Classifier) Classify(size int) (HeadingLevel, bool) {
	switch {
	case size >= c.Sizes.Title:
		return LevelTitle, true
	case size == c.Sizes.Primary:
		return LevelPrimary, true
	case size == c.Sizes.Secondary:
		return LevelSecondary, true
	case size == c.Sizes.ThirdLevel && c.KeepThirdLevel:
		return LevelThirdLevel, true
	default:
		return 0, false
	}
}
