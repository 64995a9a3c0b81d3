// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package query_test

import (
	"fmt"
	"log"

	"github.com/creachadair/jbind/value"
	"github.com/creachadair/jbind/value/query"
)

func Example() {
	root := value.MustParse(`{"event": [
  {"description": "Spring picnic", "image": [
     {"path": "a.jpg", "date": "2023-04-15 12:15:03", "with": ["alice", "bob"]},
     {"path": "b.jpg", "date": "2023-04-15 12:44:10"}
  ]},
  {"description": "Harbor walk", "image": [
     {"path": "c.jpg", "date": "2023-06-02 18:00:00", "with": ["carol"]}
  ]}
]}`)

	v, err := query.Eval(root, query.Object{
		"events": query.Path("event", query.Len()),
		"last":   query.Path("event", -1, "description"),
		"people": query.Seq{query.Recur("with"), query.Glob()},
		"paths":  query.Recur("path"),
	})
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	fmt.Println(v.JSON())
	// Output:
	// {"events":2,"last":"Harbor walk","paths":["a.jpg","b.jpg","c.jpg"],"people":[["alice","bob"],["carol"]]}
}
