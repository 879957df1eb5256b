package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hisab/pkg/utils"
)

func CheckFieldNames(model interface{}) []string {
	val := reflect.TypeOf(model)
	fields := []string{}

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldToAdd := strings.TrimSuffix(field.Tag.Get("json"), ",omitempty")
		fields = append(fields, fieldToAdd) // get json tag
	}
	return fields
}

func CheckBlankFields(value interface{}) error {
	val := reflect.ValueOf(value)
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.String && field.String() == "" {
			return utils.ErrorHandler(errors.New("all fields are required"), "all fields are required")
		}
	}
	return nil
}

func ValidateSplitType(splitType string) error {
	validTypes := map[string]bool{"equal": true, "unequal": true}
	if !validTypes[splitType] {
		return fmt.Errorf("invalid split type")
	}
	return nil
}

func ValidateCategory(category string) error {
	validCategories := map[string]bool{
		"food": true, "travel": true, "rent": true, "utilities": true,
		"entertainment": true, "shopping": true, "health": true, "other": true,
	}
	if category != "" && !validCategories[category] {
		return fmt.Errorf("invalid category")
	}
	return nil
}
