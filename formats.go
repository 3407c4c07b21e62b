package metaclean

// Format handlers register themselves with the internal registry in
// their init functions. Importing them here makes every handler
// available to New without callers having to know they exist.
import (
	_ "github.com/simonhull/metaclean/internal/jpeg"
	_ "github.com/simonhull/metaclean/internal/png"
	_ "github.com/simonhull/metaclean/internal/torrent"
)
