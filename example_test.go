package textimport_test

import (
	"fmt"
	"log"

	"github.com/nao1215/textimport"
)

func ExampleSession_BuildSchema() {
	s, err := textimport.NewSession("testdata/products.csv")
	if err != nil {
		log.Fatal(err)
	}
	s.SetFirstDataLine(1)
	s.UseHeaderLine(true)

	schema := s.BuildSchema()
	for _, v := range schema.Vars() {
		fmt.Println(v.Name, v.Spec)
	}
	// Output:
	// sku A4
	// price DOLLAR6.2
	// added DATE11
}

func ExampleSession_Reader() {
	s, err := textimport.NewSession("testdata/products.csv")
	if err != nil {
		log.Fatal(err)
	}
	s.SetFirstDataLine(1)
	s.UseHeaderLine(true)
	s.BuildSchema()

	reader, err := s.Reader()
	if err != nil {
		log.Fatal(err)
	}
	c, err := reader.Read(0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s %.2f\n", c[0].Str, c[1].Num)
	// Output:
	// A100 4.50
}

func ExampleParseSyntax() {
	cfg, err := textimport.ParseSyntax(`GET DATA
  /TYPE=TXT
  /FILE="testdata/products.csv"
  /ARRANGEMENT=DELIMITED
  /DELCASE=LINE
  /FIRSTCASE=2
  /DELIMITERS=","
  /QUALIFIER=""""
  /VARIABLES=
    sku A4
    price DOLLAR6.2
    added DATE11.
`)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(cfg.File, cfg.FirstCase, string(cfg.Delimiters))
	fmt.Println(cfg.Variables[1].Name, cfg.Variables[1].Spec)
	// Output:
	// testdata/products.csv 2 ,
	// price DOLLAR6.2
}
