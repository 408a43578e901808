package wellplan

import _ "embed"

// Version is the release of the wellplan module, read from the VERSION file.
//
//go:embed VERSION
var Version string
