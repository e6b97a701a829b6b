// Package wikidex provides a compressed, read-mostly search index over wiki
// reference entries.
//
// An Index is built once from one or more sources of (query, record) pairs.
// Records are encoded and compressed, identical payloads are stored once,
// and after the build the index is immutable and safe for concurrent reads
// without locking.
//
// # Quick Start
//
//	store := blobstore.NewLocalStore("./wiki")
//	idx, err := wikidex.New().
//	    Sources(
//	        source.Commons(store, "commons.yaml", source.SectionCommons),
//	        source.Functions(store, "functions.wiki"),
//	        source.Structs(store, "structs/"),
//	    ).
//	    Store(store).
//	    Build(ctx)
//	if err != nil {
//	    return err
//	}
//	defer idx.Close(ctx)
//
// # Queries
//
// Search answers a query in three stages:
//
//	// 1. EXACT: the query text as supplied by a source.
//	// 2. FUZZY: the best scoring key at or above the cutoff (default 90).
//	//    When a key holds several records one is picked at random.
//	// 3. SUBSEQUENCE: keys containing the query's characters in order.
//	res, err := idx.Search(ctx, "p example")
//	if errors.Is(err, wikidex.ErrNoMatch) {
//	    // fall back to a wiki search
//	}
//	fmt.Println(record.Render(res.Record))
//
// TryGet and Resolve run the first two stages on their own.
//
// # Query Counter
//
// RecordQuery counts answered queries and reports milestones (100, 1000,
// 5000, ...). The count is persisted through a counter.Persister, by default
// the "querycount" blob of the configured store, at most once per flush
// interval and on Close.
//
// # Dumps
//
// Dump writes the exact-lookup dictionary to the store under
// "dumps/<blake3>.wdx". dictionary.Load reads one back.
package wikidex
