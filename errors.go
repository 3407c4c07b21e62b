package metaclean

import (
	"github.com/simonhull/metaclean/internal/types"
)

// InvalidInputError is an alias to types.InvalidInputError.
// Re-exporting from internal/types to keep the public API flat.
type InvalidInputError = types.InvalidInputError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to keep the public API flat.
type UnsupportedFormatError = types.UnsupportedFormatError

// CleaningError is an alias to types.CleaningError.
// Re-exporting from internal/types to keep the public API flat.
type CleaningError = types.CleaningError

// SwapError is an alias to types.SwapError.
// Re-exporting from internal/types to keep the public API flat.
type SwapError = types.SwapError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to keep the public API flat.
type OutOfBoundsError = types.OutOfBoundsError
