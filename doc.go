// Package minddump is the composition root of the MindDump notes data layer.
//
// It connects the domain (pkg/core: notes, tags, the Store) with the storage
// adapters (pkg/adapters/fs, pkg/adapters/sqlite) using the same hexagonal
// layout throughout: the core only knows core.Repository.
//
// Features:
//
//   - **Single source of truth**: core.Store holds the collection in memory and
//     persists every mutation before it becomes visible.
//   - **Tags**: normalized (trimmed, lowercase, no leading '#'), indexed, renamed
//     and deleted in bulk, queried by glob.
//   - **Autosave**: pkg/autosave debounces editing sessions into single commits.
//   - **Backups**: pkg/backup exports and imports a versioned JSON document.
//   - **Storage**: one JSON or YAML document (optionally versioned with Git) or SQLite.
//
// Usage:
//
//	store, err := minddump.New("./notes",
//		minddump.WithAutoInit(true),
//		minddump.WithLogger(logger),
//	)
//
//	n, err := store.AddNote(ctx, minddump.Note{Title: "Groceries", Tags: []string{"home"}})
//
//	session := minddump.Edit(store, n)
//	_ = session.SetContent("milk, eggs")
//	_ = session.Close(ctx)
package minddump
