// Package paths provides centralized path handling for cfgtool.
//
// It has two responsibilities:
//
//   - XDG directory resolution for cfgtool's own files (data, config, state)
//   - The Mapper, which translates between a file under the user's home
//     directory and its mirror inside the store
//
// # Environment Variables
//
//   - CFGTOOL_DATA_DIR: Override the data directory (default: $XDG_DATA_HOME/cfgtool)
//   - CFGTOOL_CONFIG_DIR: Override the config directory (default: $XDG_CONFIG_HOME/cfgtool)
//
// # Store Layout
//
// The store mirrors the home directory path for path:
//
//	~/.bashrc               -> <store>/.bashrc
//	~/.config/nvim/init.lua -> <store>/.config/nvim/init.lua
//
// Only descendants of the home directory can be mapped, and the store
// directory itself is never mappable even when it lives under $HOME.
//
// # Usage
//
//	p, err := paths.New()
//	mapper, err := paths.NewMapper(home, p.DefaultStoreRoot())
//	storePath, err := mapper.ToStorePath("/home/user/.bashrc")
//	homePath, err := mapper.ToHomePath(".bashrc")
package paths
