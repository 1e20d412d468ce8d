package xmlbind_test

import (
	"fmt"

	"github.com/jacoelho/xmlbind"
)

type Book struct {
	xmlbind.Meta
	ISBN  string
	Title string
	Pages int
}

func init() {
	xmlbind.Register[Book](xmlbind.TypeMeta{
		Root: "book",
		Fields: []xmlbind.Field{
			{Key: "ISBN", Name: "isbn", Kind: xmlbind.Attribute},
			{Key: "Title", Name: "title", Kind: xmlbind.Element},
			{Key: "Pages", Name: "pages", Kind: xmlbind.Element},
		},
	})
}

func Example() {
	doc := []byte(`<book isbn="978-0-13-468599-1">
  <!-- second edition -->
  <title>The Go Programming Language</title>
  <pages>380</pages>
</book>
`)

	b, err := xmlbind.Unmarshal[Book](doc)
	if err != nil {
		panic(err)
	}
	fmt.Println(b.Title, b.Pages)

	out, err := xmlbind.Marshal(b)
	if err != nil {
		panic(err)
	}
	fmt.Print(string(out))
	// Output:
	// The Go Programming Language 380
	// <book isbn="978-0-13-468599-1">
	//   <!-- second edition -->
	//   <title>The Go Programming Language</title>
	//   <pages>380</pages>
	// </book>
}
