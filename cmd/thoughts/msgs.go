package thoughts

// User-facing message strings for the thoughts CLI.
const (
	MsgRootShort = "A git-synchronized knowledge store projected into your repositories"
	MsgRootLong  = `thoughts keeps your notes in one central, git-synchronized store and
projects them into any working repository through a symlink overlay, plus a
hard-linked searchable mirror so tools that do not follow symlinks still see
live content.`

	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagForce      = "Replace overlay entries that exist but do not match"
	MsgFlagConfigFile = "Path to config file"

	MsgInitShort   = "Initialize the thoughts overlay for this repository"
	MsgSyncShort   = "Reconcile the overlay, then commit and push the store"
	MsgStatusShort = "Show overlay and store status for this repository"
	MsgUninitShort = "Remove the thoughts overlay from this repository"
	MsgConfigShort = "Inspect or edit the thoughts configuration"

	MsgProfileShort       = "Manage named profiles"
	MsgProfileCreateShort = "Create a named profile"
	MsgProfileListShort   = "List profiles"
	MsgProfileShowShort   = "Show one profile's settings"
	MsgProfileDeleteShort = "Delete a profile"
)
