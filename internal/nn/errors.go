package nn

import "errors"

// Common errors.
var (
	// ErrFixedFeatureWidth is returned when a cell that already committed to
	// an input width receives input of a different width.
	ErrFixedFeatureWidth = errors.New("input does not have the cell's fixed number of features")

	// ErrInvalidConfig is returned for non-positive cell dimensions.
	ErrInvalidConfig = errors.New("invalid cell configuration")

	// ErrOutOfVocabulary is returned by lookups for ids outside the table.
	ErrOutOfVocabulary = errors.New("token id out of vocabulary")
)
