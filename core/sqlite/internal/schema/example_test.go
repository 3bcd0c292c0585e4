package schema_test

import (
	"fmt"
	"log"

	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/dbtest"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/pager"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/schema"
)

func ExampleLoad() {
	b := dbtest.New(4096).Schema(
		dbtest.TableEntry("apples", 2, "CREATE TABLE apples(id integer, name text, color text)"),
		dbtest.TableEntry("oranges", 3, "CREATE TABLE oranges(id integer, weight real)"),
	)
	b.Leaf()
	b.Leaf()

	p, err := pager.New(pager.NewMemSource(b.Bytes()), "sample.db")
	if err != nil {
		log.Fatal(err)
	}
	cat, err := schema.Load(p)
	if err != nil {
		log.Fatal(err)
	}

	for _, t := range cat.Tables() {
		fmt.Println(t.Name, t.RootPage, t.ColumnNames())
	}
	apples, _ := cat.Table("Apples")
	fmt.Println(apples.ColumnIndex("color"))
	// Output:
	// apples 2 [id name color]
	// oranges 3 [id weight]
	// 2
}
