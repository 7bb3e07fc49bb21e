// Package app provides the orchestration layer for lister.
//
// # Overview
//
// This package wires configuration, page sources, list controllers, the
// health store and the UI together. It is the composition root: every
// dependency is built here and handed to the packages that use it.
//
// # Components
//
//   - app.go: Run for the browser, OpenLists to build controllers per backend
//   - serve.go: Serve for the HTTP API and Seed for the SQLite catalog
//   - poller.go: StartAutoRefresh, an optional periodic Refresh
//   - logging.go: zap logger construction
//
// # Data Flow
//
//	Run()
//	 ├─> prefs.Load()             theme and last list
//	 ├─> OpenLists()
//	 │    ├─> memory | sqlite | http source
//	 │    ├─> source.Observe()    records outcomes in state.Store
//	 │    └─> pager.New()         one controller per list
//	 ├─> StartAutoRefresh()       when refresh_every_s > 0
//	 └─> ui.Run()                 blocks until quit
//
//	Serve()
//	 ├─> openSeeded()             SQLite, seeded when empty
//	 └─> errgroup
//	      ├─> server.Start()
//	      └─> server.Shutdown()   once ctx ends
//
// # Error Handling
//
// Configuration, database and client construction errors are returned from
// Run and Serve. An unreachable API in the http backend is only logged: the
// lists surface the failure and the user retries from the UI.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//	logger, err := app.NewLogger(false, cfg.LogFile)
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx, cfg, app.Options{Logger: logger})
package app
