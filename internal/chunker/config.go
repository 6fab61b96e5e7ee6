package chunker

import "fmt"

// Config controls chunk sizing. All token values are heuristic
// estimates; targets are soft, max values are hard ceilings.
type Config struct {
	// Child chunk sizing (retrieval units).
	ChildTargetTokens int
	ChildMaxTokens    int
	ChildMinTokens    int

	// Parent chunk sizing (context expansion units).
	ParentTargetTokens int
	ParentMaxTokens    int
	ParentMinTokens    int

	// Trailing sentences carried into the next fact/narrative chunk.
	OverlapSentences int

	// Heading levels kept in a section's heading path.
	MaxHeadingDepth int
}

// DefaultConfig returns sizing tuned for travel notes.
func DefaultConfig() Config {
	return Config{
		ChildTargetTokens:  360,
		ChildMaxTokens:     550,
		ChildMinTokens:     140,
		ParentTargetTokens: 1200,
		ParentMaxTokens:    1600,
		ParentMinTokens:    500,
		OverlapSentences:   2,
		MaxHeadingDepth:    3,
	}
}

// Validate rejects inconsistent thresholds. This is the only place
// configuration errors surface; chunk building itself never fails.
func (c Config) Validate() error {
	if c.ChildMinTokens <= 0 || c.ParentMinTokens <= 0 {
		return fmt.Errorf("chunker: min tokens must be positive")
	}
	if c.ChildMinTokens > c.ChildTargetTokens {
		return fmt.Errorf("chunker: child min %d exceeds target %d", c.ChildMinTokens, c.ChildTargetTokens)
	}
	if c.ChildTargetTokens > c.ChildMaxTokens {
		return fmt.Errorf("chunker: child target %d exceeds max %d", c.ChildTargetTokens, c.ChildMaxTokens)
	}
	if c.ParentMinTokens > c.ParentTargetTokens {
		return fmt.Errorf("chunker: parent min %d exceeds target %d", c.ParentMinTokens, c.ParentTargetTokens)
	}
	if c.ParentTargetTokens > c.ParentMaxTokens {
		return fmt.Errorf("chunker: parent target %d exceeds max %d", c.ParentTargetTokens, c.ParentMaxTokens)
	}
	if c.OverlapSentences < 0 {
		return fmt.Errorf("chunker: overlap sentences must not be negative")
	}
	if c.MaxHeadingDepth < 1 {
		return fmt.Errorf("chunker: max heading depth must be at least 1")
	}
	return nil
}
