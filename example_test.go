package minddump_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/minddump"
)

// Example_basic creates a note, tags it and reads the tag index back.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "minddump-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store, err := minddump.New(tmpDir, minddump.WithAutoInit(true), minddump.WithVersioning(false))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	n, err := store.AddNote(ctx, minddump.Note{Title: "Groceries", Tags: []string{"#Home"}})
	if err != nil {
		log.Fatal(err)
	}
	if err := store.AddTag(ctx, "errands", n.ID); err != nil {
		log.Fatal(err)
	}

	fmt.Println(store.AllTags())
	// Output:
	// [errands home]
}

// Example_autosave shows an editing session producing a single commit.
func Example_autosave() {
	tmpDir, err := os.MkdirTemp("", "minddump-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store, err := minddump.New(tmpDir, minddump.WithAutoInit(true), minddump.WithVersioning(false))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	session := minddump.Edit(store, store.CreateNewNote("bullets"))
	for _, line := range []string{"milk", "milk\neggs", "milk\neggs\nbread"} {
		_ = session.SetContent(line)
	}
	if err := session.Close(ctx); err != nil {
		log.Fatal(err)
	}

	fmt.Println(store.Len(), store.Notes()[0].Content == "milk\neggs\nbread")
	// Output:
	// 1 true
}
