package wikidex_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/wikidex"
	"github.com/hupe1980/wikidex/record"
	"github.com/hupe1980/wikidex/source"
)

// Example demonstrates building an index and answering queries.
func Example() {
	ctx := context.Background()

	fn := &record.Function{
		Entry:     record.Entry{Name: "P_Example"},
		Signature: "P_Example(mobj_t mo)",
	}

	idx, err := wikidex.New().
		Sources(source.Slice("functions", record.Pair{Query: "P_Example", Record: fn})).
		Build(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close(ctx)

	for _, q := range []string{"P_Example", "p example"} {
		res, err := idx.Search(ctx, q)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Method, res.Key)
	}
	// Output:
	// exact P_Example
	// fuzzy P_Example
}
