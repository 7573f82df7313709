package lib

// Banner the banner
const Banner = `
    _     _
   (_)___| |_
   | (_-<|  _|
  _/ /__/ \__|
 |__/
`

var (
	// Version is the current version.
	Version = "(untracked)"
	// CommitSHA is the commit sha.
	CommitSHA = "(unknown)"
)
