package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	schemaform "github.com/goliatone/go-schemaform"
	"github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/themes"
)

func main() {
	source := flag.String("schema", "", "schema document path or URL")
	isOpenAPI := flag.Bool("openapi", false, "treat the document as an OpenAPI 3 spec")
	typeName := flag.String("type", "", "schema type to render (first type if empty)")
	themeName := flag.String("theme", "bootstrap", "theme to render with")
	variant := flag.String("variant", "", "theme variant")
	action := flag.String("action", "", "form action URL")
	method := flag.String("method", "POST", "form submit method")
	submit := flag.String("submit", "", "submit button label")
	output := flag.String("output", "", "output file (stdout if empty)")
	list := flag.Bool("list", false, "list available types and exit")
	flag.Parse()

	if strings.TrimSpace(*source) == "" {
		log.Fatal("a -schema path or URL is required")
	}

	ctx := context.Background()

	provider, types, err := loadProvider(ctx, *source, *isOpenAPI)
	if err != nil {
		log.Fatalf("load schema: %v", err)
	}

	if *list {
		for _, name := range types {
			fmt.Println(name)
		}
		return
	}

	name := *typeName
	if name == "" {
		if len(types) == 0 {
			log.Fatal("document declares no types")
		}
		name = types[0]
	}

	engine := schemaform.New(
		schemaform.WithProvider(provider),
		schemaform.WithManifestSelector(themes.DefaultSelector()),
	)

	html, err := engine.Generate(ctx, schemaform.Request{
		Type:        name,
		Theme:       *themeName,
		Variant:     *variant,
		Action:      *action,
		Method:      *method,
		SubmitLabel: *submit,
	})
	if err != nil {
		log.Fatalf("generate form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(html), 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	fmt.Println(html)
}

func loadProvider(ctx context.Context, source string, isOpenAPI bool) (schema.Provider, []string, error) {
	if isOpenAPI {
		data, err := readSource(ctx, source)
		if err != nil {
			return nil, nil, err
		}
		components, err := openapi.New().Components(ctx, data)
		if err != nil {
			return nil, nil, err
		}
		names := make([]string, 0, len(components))
		for name := range components {
			names = append(names, name)
		}
		sort.Strings(names)
		return components, names, nil
	}

	loader := schema.NewLoader(
		schema.WithHTTPClient(&http.Client{}),
		schema.WithRequestTimeout(30*time.Second),
	)
	doc, err := loader.Load(ctx, parseSource(source))
	if err != nil {
		return nil, nil, err
	}
	return doc, doc.Types(), nil
}

func parseSource(raw string) schema.Source {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return schema.SourceFromURL(raw)
	}
	return schema.SourceFromFile(raw)
}

func readSource(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}
