package handlers

import "testing"

func TestValidateSplitType(t *testing.T) {
	for _, valid := range []string{"equal", "unequal"} {
		if err := ValidateSplitType(valid); err != nil {
			t.Errorf("ValidateSplitType(%q) = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{"", "exact", "EQUAL", "percentage"} {
		if err := ValidateSplitType(invalid); err == nil {
			t.Errorf("ValidateSplitType(%q) = nil, want error", invalid)
		}
	}
}

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory(""); err != nil {
		t.Errorf("empty category should be allowed, got %v", err)
	}
	if err := ValidateCategory("food"); err != nil {
		t.Errorf("ValidateCategory(food) = %v, want nil", err)
	}
	if err := ValidateCategory("gambling"); err == nil {
		t.Error("ValidateCategory(gambling) = nil, want error")
	}
}

func TestCheckBlankFields(t *testing.T) {
	type form struct {
		Name  string
		Email string
	}

	if err := CheckBlankFields(form{Name: "a", Email: "b"}); err != nil {
		t.Errorf("CheckBlankFields with filled fields = %v, want nil", err)
	}
	if err := CheckBlankFields(form{Name: "a"}); err == nil {
		t.Error("CheckBlankFields with blank field = nil, want error")
	}
}
