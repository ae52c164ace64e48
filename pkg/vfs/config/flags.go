package config

import "github.com/spf13/pflag"

// BindFlags registers this configuration's fields onto fs, matching the
// --merge/--overwrite/--recursive convention named in the external
// interfaces. Called once on the root command's persistent flag set so
// every subcommand shares the same settings.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Root, "root", c.Root, "root directory staged paths resolve against")
	fs.BoolVar(&c.Merge, "merge", c.Merge, "allow merging into an existing directory")
	fs.BoolVar(&c.Overwrite, "overwrite", c.Overwrite, "allow overwriting an existing file")
	fs.BoolVar(&c.Recursive, "recursive", c.Recursive, "allow removing a non-empty directory")
	fs.CountVarP(&c.Verbosity, "verbose", "v", "increase logging verbosity")
}
