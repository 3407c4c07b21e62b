// Package metaclean removes embedded metadata from files.
//
// metaclean gives every supported format the same lifecycle: open a
// file, inspect its metadata, write a cleaned copy, and optionally
// replace the original in place through a temporary-file swap that
// can never damage the source.
//
// # Quick Start
//
// Cleaning a file into a sibling output:
//
//	p, err := metaclean.New("photo.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Finalize()
//
//	if err := p.RemoveAll(); err != nil {
//		log.Fatal(err)
//	}
//	// Cleaned copy written to photo.cleaned.jpg
//
// # Supported Formats
//
//   - PNG: textual chunks (tEXt/zTXt/iTXt), timestamps, embedded EXIF
//   - JPEG: comments, EXIF, XMP, Photoshop resources
//   - torrent: creator banners, creation dates, comments
//
// # Cleaning Modes
//
// Thorough cleaning (the default) removes every recognized metadata
// field and reconstructs the file so that unknown metadata carriers
// are dropped too. Lightweight cleaning removes only the fields the
// format handler explicitly recognizes and preserves the rest of the
// file byte-for-byte; it is faster but fields unknown to the handler
// may survive. For every format, the set of fields thorough cleaning
// removes is a superset of what lightweight cleaning removes.
//
// # In-Place Editing
//
// EditInPlace switches a parser to clean the original file itself:
//
//	p, err := metaclean.New("photo.jpg", metaclean.WithInPlace())
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = p.RemoveAll()
//	if ferr := p.Finalize(); ferr != nil {
//		log.Printf("%v", ferr) // original untouched, temp removed
//	}
//
// The cleaned output goes to a private temporary file; Finalize swaps
// it over the original. Finalize is idempotent and must be called
// once per parser that entered in-place mode. If the swap fails the
// original file is guaranteed unmodified and the temporary file is
// removed on a best-effort basis, with both outcomes reported in the
// returned *SwapError.
//
// # Error Handling
//
// metaclean uses typed errors:
//
//   - *InvalidInputError: the path is unusable or the file does not
//     match its detected format
//   - *UnsupportedFormatError: no handler for the detected MIME type
//   - *CleaningError: the cleaning pass could not complete; the
//     source file is untouched
//   - *SwapError: the in-place swap failed; the original is untouched
//
// # Batch Cleaning
//
// CleanMany cleans several files concurrently:
//
//	results, err := metaclean.CleanMany(ctx, paths,
//	    metaclean.WithLightweightCleaning(),
//	)
package metaclean
