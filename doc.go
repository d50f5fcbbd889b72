// Package jotbox is the Composition Root for the jotbox notes core.
//
// It connects the domain (notes, checklists, export, backup) with the storage
// adapters (directory, SQLite, memory) using the Hexagonal Architecture pattern.
//
// Every collection lives under a single key of a device-style key-value store
// and is rewritten as a whole on each change. The App facade turns every
// failure into a Result so a UI can show a message instead of crashing.
//
// Features:
//
//   - **Hexagonal Architecture**: the domain is isolated from persistence details.
//   - **Atomic Writes**: collections are replaced in one step, never half-written.
//   - **Checklists**: to-do notes carry tasks with stable ids.
//   - **Export**: selected notes as text, Markdown (with front matter) or JSON.
//   - **Backup/Restore**: a single JSON document holding notes and passwords.
//
// Usage:
//
//	app, err := jotbox.Open(ctx,
//		jotbox.WithPath("./notes"),
//		jotbox.WithLogger(logger),
//	)
//
//	note, res := app.CreateNote(ctx, "Groceries", "milk, eggs", "")
//	if !res.Success {
//		fmt.Println(res.Message())
//	}
package jotbox
