// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jbind/syntax"
	"github.com/creachadair/jbind/value"
)

// Cases drawn from the y_ and n_ parsing tests of the JSONTestSuite described
// in "Parsing JSON is a Minefield", https://seriot.ch/projects/parsing_json.html.
// The indeterminate i_ cases are not checked.
var (
	mustAccept = map[string]string{
		"array_arraysWithSpaces":      `[[]   ]`,
		"array_empty":                 `[]`,
		"array_empty-string":          `[""]`,
		"array_false":                 `[false]`,
		"array_heterogeneous":         `[null, 1, "1", {}]`,
		"array_with_1_and_newline":    "[1\n]",
		"array_with_several_null":     `[1,null,null,null,2]`,
		"number_0e+1":                 `[0e+1]`,
		"number_0e1":                  `[0e1]`,
		"number_after_space":          `[ 4]`,
		"number_double_close_to_zero": `[-0.000000000000000000000000000000000000000000000000000000000000000000000000000001]`,
		"number_int_with_exp":         `[20e1]`,
		"number_minus_zero":           `[-0]`,
		"number_negative_int":         `[-123]`,
		"number_real_capital_e":       `[1E22]`,
		"number_real_fraction_exp":    `[123.456e78]`,
		"number_real_neg_exp":         `[1e-2]`,
		"number_real_pos_exp":         `[1e+2]`,
		"number_huge_int":             `[100000000000000000000]`,
		"object_basic":                `{"asd":"sdf"}`,
		"object_duplicated_key":       `{"a":"b","a":"c"}`,
		"object_empty_key":            `{"":0}`,
		"object_escaped_null_in_key":  `{"foo\u0000bar": 42}`,
		"object_long_strings":         `{"x":[{"id": "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"}], "id": "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"}`,
		"object_simple":               `{"a":[]}`,
		"string_allowed_escapes":      `["\"\\\/\b\f\n\r\t"]`,
		"string_escaped_control":      `["\u0012"]`,
		"string_surrogates_U+1D11E":   `["𝄞"]`,
		"string_nonCharacterInUTF-8":  `["￿"]`,
		"string_utf8":                 `["€𝄞"]`,
		"string_in_array_with_spaces": `[ "asd"]`,
		"structure_lonely_int":        `42`,
		"structure_lonely_null":       `null`,
		"structure_lonely_string":     `"asd"`,
		"structure_trailing_newline":  "[\"a\"]\n",
		"structure_whitespace_array":  " [] ",
	}

	mustReject = map[string]string{
		"array_1_true_without_comma":          `[1 true]`,
		"array_colon_instead_of_comma":        `["": 1]`,
		"array_comma_after_close":             `[""],`,
		"array_double_comma":                  `[1,,2]`,
		"array_extra_close":                   `["x"]]`,
		"array_extra_comma":                   `["",]`,
		"array_incomplete":                    `["x"`,
		"array_just_comma":                    `[,]`,
		"array_missing_value":                 `[   , ""]`,
		"array_unclosed":                      `[""`,
		"incomplete_false":                    `[fals]`,
		"incomplete_null":                     `[nul]`,
		"number_+1":                           `[+1]`,
		"number_-01":                          `[-01]`,
		"number_.2e-3":                        `[.2e-3]`,
		"number_0.e1":                         `[0.e1]`,
		"number_1.0e+":                        `[1.0e+]`,
		"number_hex_1_digit":                  `[0x1]`,
		"number_Inf":                          `[Inf]`,
		"number_NaN":                          `[NaN]`,
		"number_minus_infinity":               `[-Infinity]`,
		"number_real_without_fractional_part": `[1.]`,
		"number_with_leading_zero":            `[012]`,
		"object_bad_value":                    `["x", truth]`,
		"object_comma_instead_of_colon":       `{"x", null}`,
		"object_missing_colon":                `{"a" b}`,
		"object_missing_value":                `{"a":`,
		"object_non_string_key":               `{1:1}`,
		"object_single_quote":                 `{'a':0}`,
		"object_trailing_comma":               `{"id":0,}`,
		"object_trailing_comment":             `{"a":"b"}/**/`,
		"string_escape_x":                     `["\x00"]`,
		"string_incomplete_escape":            `["\"]`,
		"string_invalid_unicode_escape":       `["\uqqqq"]`,
		"string_unescaped_tab":                "[\"\t\"]",
		"string_single_quote":                 `['single quote']`,
		"structure_close_unopened_array":      `1]`,
		"structure_no_data":                   ``,
		"structure_whitespace_only":           " \n ",
		"structure_open_object":               `{`,
		"structure_unclosed_array":            `[1`,
		"structure_U+2060_word_joined":        "[⁠]",
	}
)

func TestCompliance(t *testing.T) {
	for name, input := range mustAccept {
		t.Run("y_"+name, func(t *testing.T) {
			if _, err := value.ParseString(input, nil); err != nil {
				t.Errorf("Parse %#q: unexpected error: %v", input, err)
			}
		})
	}
	for name, input := range mustReject {
		t.Run("n_"+name, func(t *testing.T) {
			doc, err := value.ParseString(input, nil)
			if err == nil {
				t.Fatalf("Parse %#q: got %s, want error", input, doc.Root().JSON())
			}
			var serr *syntax.SyntaxError
			if !errors.As(err, &serr) {
				t.Errorf("Parse %#q: got %T, want *syntax.SyntaxError", input, err)
			}
			t.Logf("Got expected error: %v", err)
		})
	}
}
