package validate_test

import (
	"testing"

	"github.com/hendryprasetyo/storefront/pkg/validate"
)

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Category string `json:"category" validate:"nullable,in=clothing,electronics,books"`
	Price    float64 `json:"price"   validate:"numeric,gte=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "alice_01",
		Email:    "alice@example.com",
		Password: "longpassword",
		Category: "", // nullable — allowed to be empty
		Price:    19.99,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["username"]; !ok {
		t.Error("expected username to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestMinLength(t *testing.T) {
	type in struct {
		Password string `json:"password" validate:"required,min=8"`
	}
	if errs := validate.Struct(in{Password: "short"}); !validate.HasErrors(errs) {
		t.Error("expected password < 8 chars to fail")
	}
	if errs := validate.Struct(in{Password: "longpassword"}); validate.HasErrors(errs) {
		t.Errorf("expected 12-char password to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Qty int `json:"qty" validate:"required,gte=1,lte=99"`
	}
	if errs := validate.Struct(in{Qty: 100}); !validate.HasErrors(errs) {
		t.Error("expected qty > 99 to fail")
	}
	if errs := validate.Struct(in{Qty: 3}); validate.HasErrors(errs) {
		t.Errorf("expected qty 3 to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Method string `json:"method" validate:"required,in=PayPal,Stripe"`
	}
	if errs := validate.Struct(in{Method: "cash"}); !validate.HasErrors(errs) {
		t.Error("expected unknown payment method to fail")
	}
	if errs := validate.Struct(in{Method: "PayPal"}); validate.HasErrors(errs) {
		t.Errorf("expected PayPal to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Category string `json:"category" validate:"nullable,in=clothing,books"`
	}
	if errs := validate.Struct(in{Category: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Category: "toys"}); !validate.HasErrors(errs) {
		t.Error("expected invalid category to fail")
	}
}
