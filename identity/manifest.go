package identity

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/detachgo/internal/ctxlog"
	"github.com/specialistvlad/detachgo/internal/fsutil"
)

// manifestRoot is the top-level structure of a manifest file, expecting
// one or more 'entity' blocks.
type manifestRoot struct {
	Entities []*hclEntity `hcl:"entity,block"`
}

// hclEntity represents a single 'entity' block for decoding purposes.
type hclEntity struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// binding is one validated manifest entry, held back until the whole
// manifest set passes the parity check.
type binding struct {
	sample any
	field  string
}

// LoadManifests parses identity manifests from path (a .hcl file or a
// directory of them) and binds the declared identity fields to Go types
// previously registered with RegisterType:
//
//	entity "main" {
//	  identity = "ID"
//	}
//
// Loading performs a strict parity check between manifests and Go code
// before any binding takes effect: an entity name without a registered
// Go type, a missing or unexported field, or a non-string identity
// attribute each fail the whole load.
func LoadManifests(ctx context.Context, reg *Registry, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading identity manifests.", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return fmt.Errorf("identity: walking manifest path: %w", err)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path.", "path", path)
		return nil
	}

	parser := hclparse.NewParser()
	var errs []string
	var bindings []binding
	seen := make(map[string]bool)

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("identity: failed to parse manifest %s: %w", filePath, diags)
		}

		var root manifestRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return fmt.Errorf("identity: failed to decode manifest %s: %w", filePath, diags)
		}

		for _, ent := range root.Entities {
			seen[ent.Name] = true
			fieldName, entErrs := decodeEntity(ent)
			if len(entErrs) > 0 {
				errs = append(errs, entErrs...)
				continue
			}

			t, ok := reg.typeFor(ent.Name)
			if !ok {
				errs = append(errs, fmt.Sprintf("entity '%s': no Go type registered for this name", ent.Name))
				continue
			}
			sf, ok := t.FieldByName(fieldName)
			if !ok {
				errs = append(errs, fmt.Sprintf("entity '%s': Go type %v has no field %q", ent.Name, t, fieldName))
				continue
			}
			if !sf.IsExported() {
				errs = append(errs, fmt.Sprintf("entity '%s': field %q of %v is not exported", ent.Name, fieldName, t))
				continue
			}

			bindings = append(bindings, binding{sample: newSample(t), field: fieldName})
			logger.Debug("Validated identity manifest entry.", "entity", ent.Name, "field", fieldName)
		}
	}

	// Parity runs both ways: a registered type without a manifest entry
	// is as much a drift as a manifest entry without a type.
	names := reg.typeNames()
	sort.Strings(names)
	for _, name := range names {
		if !seen[name] {
			errs = append(errs, fmt.Sprintf("entity '%s': registered Go type has no manifest entry", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("identity manifest validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	for _, b := range bindings {
		if err := reg.Register(b.sample, b.field); err != nil {
			return err
		}
	}

	logger.Info("Identity manifests loaded.", "bindings", len(bindings))
	return nil
}

// newSample builds a throwaway pointer instance of t for Register.
func newSample(t reflect.Type) any {
	return reflect.New(t).Interface()
}

// decodeEntity extracts and type-checks the 'identity' attribute of one
// entity block.
func decodeEntity(ent *hclEntity) (string, []string) {
	attrs, diags := ent.Body.JustAttributes()
	if diags.HasErrors() {
		return "", []string{fmt.Sprintf("entity '%s': %s", ent.Name, diags.Error())}
	}

	attr, ok := attrs["identity"]
	if !ok {
		return "", []string{fmt.Sprintf("entity '%s': missing required attribute 'identity'", ent.Name)}
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", []string{fmt.Sprintf("entity '%s': %s", ent.Name, diags.Error())}
	}
	if !val.Type().Equals(cty.String) {
		return "", []string{fmt.Sprintf("entity '%s': attribute 'identity' must be a string, got %s", ent.Name, val.Type().FriendlyName())}
	}

	var fieldName string
	if err := gocty.FromCtyValue(val, &fieldName); err != nil {
		return "", []string{fmt.Sprintf("entity '%s': %v", ent.Name, err)}
	}

	var unknown []string
	for name := range attrs {
		if name != "identity" {
			unknown = append(unknown, fmt.Sprintf("entity '%s': unsupported attribute %q", ent.Name, name))
		}
	}
	if len(unknown) > 0 {
		return "", unknown
	}

	return fieldName, nil
}
