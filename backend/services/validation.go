// ABOUTME: Input validation for analysis requests
// ABOUTME: Struct tags via go-playground/validator plus cross-field range rules

package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// catalogIDPattern matches provider, region, and instance ids (alphanumeric, dots, hyphens, underscores)
var catalogIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(optionalValue[float64], models.Optional[float64]{})
	v.RegisterCustomTypeFunc(optionalValue[int], models.Optional[int]{})
	v.RegisterCustomTypeFunc(optionalValue[models.DataSkew], models.Optional[models.DataSkew]{})

	_ = v.RegisterValidation("catalogid", func(fl validator.FieldLevel) bool {
		return catalogIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// optionalValue exposes a present Optional as a pointer so explicit zero
// values are still range-checked; absent values are skipped by omitempty.
func optionalValue[T any](field reflect.Value) any {
	o, ok := field.Interface().(models.Optional[T])
	if !ok || !o.Valid {
		return (*T)(nil)
	}
	v := o.Value
	return &v
}

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// ValidateCatalogID validates a provider, region, or instance id from a query string.
func ValidateCatalogID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if len(id) > 64 || !catalogIDPattern.MatchString(id) {
		return fmt.Errorf("invalid %s format: %s", kind, sanitizeForLog(id))
	}
	return nil
}

// ValidateAnalyzeRequest rejects malformed or out-of-range input before it
// reaches the engine. It returns a *models.ValidationError listing every problem.
func ValidateAnalyzeRequest(req models.AnalyzeRequest) error {
	verr := &models.ValidationError{}

	if err := requestValidator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating request: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.Add(fieldPath(fe.Namespace()), describe(fe))
		}
	}

	w := req.Workload
	if lo, ok := w.MinRuntimeMinutes.Get(); ok {
		if hi, ok := w.MaxRuntimeMinutes.Get(); ok && lo > hi {
			verr.Add("workload.min_runtime_minutes", "must not exceed max_runtime_minutes")
		}
	}
	if lo, ok := w.AutoscaleMinNodes.Get(); ok {
		if hi, ok := w.AutoscaleMaxNodes.Get(); ok && lo > hi {
			verr.Add("workload.autoscale_min_nodes", "must not exceed autoscale_max_nodes")
		}
	}
	if req.Region != "" && req.Cloud == "" {
		verr.Add("region", "requires cloud")
	}

	return verr.ErrOrNil()
}

// fieldPath turns "AnalyzeRequest.ClusterInput.node.cores" into "node.cores".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	if len(parts) > 1 && parts[0] == "ClusterInput" {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "catalogid":
		return "must contain only letters, digits, '.', '_' or '-'"
	case "required":
		return "is required"
	}
	return "failed " + fe.Tag() + " check"
}
