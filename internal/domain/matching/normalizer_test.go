package matching

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"accents and case", "PIX Recebido - João  da Silva!!", "pix recebido joao da silva"},
		{"cedilla and symbols", "Açaí & Cia.", "acai cia"},
		{"leading and trailing spaces", "   Cortinas   Sala  ", "cortinas sala"},
		{"digits are kept", "ORC-2024/0153", "orc 2024 0153"},
		{"empty input", "", ""},
		{"only punctuation", "!!! --- ***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"TRANSFERÊNCIA ENVIADA - Tecidos Alfa LTDA",
		"Persianas Rolô  &  Cortinas",
		"  ",
		"São José dos Campos",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"bank noise removed", "PIX RECEBIDO JOAO DA SILVA", []string{"joao", "silva"}},
		{"prepositions removed", "Pagamento de cortinas para a sala", []string{"cortinas", "sala"}},
		{"duplicates kept in order", "Maria maria Oliveira", []string{"maria", "maria", "oliveira"}},
		{"nothing left", "TED DOC PIX", []string{}},
		{"empty input", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("TED TED Maria Maria Oliveira Cortinas Persianas Sala Quarto", 5)
	expected := []string{"maria", "oliveira", "cortinas", "persianas", "sala"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	if got := Keywords("PIX TED", 5); len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}

	if got := Keywords("maria oliveira", 0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}
