package version

import "strings"

// Channel is the publishing channel a branch builds into.
type Channel string

const (
	ChannelNightly Channel = "nightly"
	ChannelRelease Channel = "release"
	ChannelDefault Channel = "default"
)

func (c Channel) String() string {
	return string(c)
}

// ChannelFor classifies a branch name. Unknown and empty branches fall
// through to ChannelDefault.
func ChannelFor(branch string) Channel {
	switch {
	case branch == MasterBranch:
		return ChannelNightly
	case strings.HasPrefix(branch, ReleasePrefix):
		return ChannelRelease
	default:
		return ChannelDefault
	}
}
