package mdsanitize_test

import (
	"context"
	"fmt"

	mdsanitize "github.com/alnah/go-mdsanitize"
)

func ExampleService_Sanitize() {
	svc := mdsanitize.New()

	result, err := svc.Sanitize(context.Background(), mdsanitize.Input{
		Markdown: "The identity $\\mathcal C$ and (E = mc^2) both render.\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(result.Markdown)
	// Output: The identity $\mathcal{C}$ and $E = mc^2$ both render.
}

func ExampleService_Sanitize_warnings() {
	svc := mdsanitize.New()

	result, err := svc.Sanitize(context.Background(), mdsanitize.Input{
		Markdown: "$$\nE = mc^2\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, w := range result.Warnings {
		fmt.Printf("%s: line %d\n", w.Code, w.Line)
	}
	// Output: unbalanced-delimiter: line 1
}

func ExampleNew_options() {
	svc := mdsanitize.New(
		mdsanitize.WithExtraMathCommands("grad"),
		mdsanitize.WithoutRules("remote-images"),
	)

	result, err := svc.Sanitize(context.Background(), mdsanitize.Input{
		Markdown: "Apply (\\grad f) to the field.\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(result.Markdown)
	// Output: Apply $\grad f$ to the field.
}
