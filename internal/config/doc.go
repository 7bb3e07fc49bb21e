// Package config loads lister's TOML configuration.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. An explicitly provided path
//  2. ~/.config/lister/config.toml
//  3. Hardcoded defaults when the file does not exist
//
// Blank or zero fields fall back to their defaults individually.
//
// # TOML Format
//
//	api_bind        = "127.0.0.1:7488"          # lister serve address / http backend target
//	backend         = "memory"                  # memory | sqlite | http
//	db_path         = "~/.local/share/lister/lister.db"
//	page_size       = 25                        # capped at 100
//	fetch_delay_ms  = 600                       # memory backend latency; 0 disables
//	refresh_every_s = 0                         # auto refresh interval; 0 disables
//	log_file        = "~/.local/share/lister/lister.log"
//	seed_count      = 500                       # rows per list when seeding
//
// Tilde expansion applies to db_path and log_file.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors and unknown
// backends. A missing file is not an error.
package config
