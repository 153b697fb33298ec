package cli

// CmdConfig holds parsed command-line configuration. Zero values mean the
// flag was not given and the config file or defaults apply.
type CmdConfig struct {
	Help          bool
	ConfigFile    string
	Source        string
	File          string
	Plain         bool
	Limit         int
	LimitSet      bool
	TimeFormat    string
	Timezone      string
	HiddenColumns []string
}
