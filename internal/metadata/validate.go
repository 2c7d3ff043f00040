package metadata

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

// Policy decides how incomplete sidecars are treated
type Policy int

const (
	// Strict requires a sidecar carrying every authorial field
	Strict Policy = iota
	// Lenient tolerates a missing sidecar and substitutes defaults
	Lenient
)

func (p Policy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}

// ParsePolicy maps a flag value onto a Policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "strict", "":
		return Strict, nil
	case "lenient", "defaults":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("unsupported metadata policy: %s (supported: strict, lenient)", s)
	}
}

// Defaults used by the lenient policy
const (
	DefaultTitle       = "Untitled"
	DefaultPrice       = 100
	DefaultCurrency    = "EUR"
	DefaultMedium      = "Unknown"
	DefaultDescription = "No description available yet."

	// AssumedDPI converts pixel dimensions into physical size
	AssumedDPI = 72.0
	CmPerInch  = 2.54
)

// Fields is the validated metadata of one painting
type Fields struct {
	Title       string
	Price       float64
	Currency    string
	Width       float64
	Height      float64
	Medium      string
	Year        int
	Description string
	Tags        []string
	Available   bool

	// DescriptionDefaulted is set when the placeholder description was used
	DescriptionDefaulted bool
	// SizeDerived is set when width and height came from pixel dimensions
	SizeDerived bool
}

// Issue is a single failed field check
type Issue struct {
	Field string
	Rule  string
}

// ValidationError reports every field that failed validation
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var missing, invalid []string
	for _, issue := range e.Issues {
		if issue.Rule == "required" || issue.Rule == "notblank" {
			missing = append(missing, issue.Field)
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", issue.Field, issue.Rule))
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing required field(s): "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid field(s): "+strings.Join(invalid, ", "))
	}
	return "invalid metadata: " + strings.Join(parts, "; ")
}

// Fields returns the names of the failing fields in declaration order
func (e *ValidationError) Fields() []string {
	names := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		names = append(names, issue.Field)
	}
	return names
}

var (
	validatorsOnce  sync.Once
	strictValidator *validator.Validate
	looseValidator  *validator.Validate
)

func validators() (*validator.Validate, *validator.Validate) {
	validatorsOnce.Do(func() {
		strictValidator = newValidator("strict")
		looseValidator = newValidator("validate")
	})
	return strictValidator, looseValidator
}

func newValidator(tag string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(tag)
	_ = v.RegisterValidation("notblank", nonstandard.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func check(v *validator.Validate, sc *Sidecar) error {
	err := v.Struct(sc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate metadata: %w", err)
	}

	out := &ValidationError{Issues: make([]Issue, 0, len(verrs))}
	for _, fe := range verrs {
		out.Issues = append(out.Issues, Issue{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}

// PixelSource yields the pixel dimensions of the painting image
type PixelSource func() (width, height int, err error)

// Resolver turns a sidecar into validated Fields under a policy
type Resolver struct {
	Policy Policy
	Now    func() time.Time
}

// Resolve validates sc and fills defaults. sc may be nil under the lenient policy.
// pixels is only consulted when width or height has to be derived.
func (r Resolver) Resolve(sc *Sidecar, pixels PixelSource) (*Fields, error) {
	strict, loose := validators()

	if r.Policy == Strict {
		if sc == nil {
			return nil, &ValidationError{Issues: []Issue{{Field: "metadata", Rule: "required"}}}
		}
		if err := check(strict, sc); err != nil {
			return nil, err
		}
		return r.fill(sc, pixels)
	}

	if sc == nil {
		sc = &Sidecar{}
	}
	if err := check(loose, sc); err != nil {
		return nil, err
	}
	return r.fill(sc, pixels)
}

func (r Resolver) fill(sc *Sidecar, pixels PixelSource) (*Fields, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	f := &Fields{
		Title:       stringOr(sc.Title, DefaultTitle),
		Price:       floatOr(sc.Price, DefaultPrice),
		Currency:    strings.ToUpper(sc.Currency),
		Medium:      stringOr(sc.Medium, DefaultMedium),
		Description: stringOr(sc.Description, DefaultDescription),
		Tags:        sc.Tags,
		Available:   true,
	}
	if f.Currency == "" {
		f.Currency = DefaultCurrency
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	if sc.Year != nil {
		f.Year = *sc.Year
	} else {
		f.Year = now().Year()
	}
	if sc.Available != nil {
		f.Available = *sc.Available
	}
	f.DescriptionDefaulted = sc.Description == nil || strings.TrimSpace(*sc.Description) == ""

	f.Width = floatOr(sc.Width, 0)
	f.Height = floatOr(sc.Height, 0)
	if f.Width == 0 || f.Height == 0 {
		if pixels == nil {
			return nil, fmt.Errorf("cannot derive dimensions: no image available")
		}
		w, h, err := pixels()
		if err != nil {
			return nil, fmt.Errorf("failed to derive dimensions from image: %w", err)
		}
		if f.Width == 0 {
			f.Width = CentimetersFromPixels(w)
		}
		if f.Height == 0 {
			f.Height = CentimetersFromPixels(h)
		}
		f.SizeDerived = true
	}

	return f, nil
}

// CentimetersFromPixels converts a pixel length at AssumedDPI into whole centimeters
func CentimetersFromPixels(px int) float64 {
	return math.Round(float64(px) / AssumedDPI * CmPerInch)
}

func stringOr(v *string, def string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
