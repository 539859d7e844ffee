package parser_test

import (
	"testing"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	parser "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Parser"
)

func TestExtractDeviceID(t *testing.T) {
	tests := []struct {
		message string
		want    int
		wantNil bool
	}{
		{message: "Qual o consumo do dispositivo 3?", want: 3},
		{message: "consumo do dispositivo: 5", want: 5},
		{message: "what did device 7 use this week", want: 7},
		{message: "stats for id: 12", want: 12},
		{message: "DISPOSITIVO 9", want: 9},
		{message: "qual o consumo total?", wantNil: true},
		{message: "", wantNil: true},
	}

	for _, tt := range tests {
		got := parser.ExtractDeviceID(tt.message)
		if tt.wantNil {
			if got != nil {
				t.Errorf("ExtractDeviceID(%q) = %d, want nil", tt.message, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ExtractDeviceID(%q) = nil, want %d", tt.message, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("ExtractDeviceID(%q) = %d, want %d", tt.message, *got, tt.want)
		}
	}
}

func TestExtractPeriod(t *testing.T) {
	tests := []struct {
		message string
		want    enmmodels.Period
	}{
		{message: "qual o consumo hoje?", want: enmmodels.PeriodToday},
		{message: "how much today?", want: enmmodels.PeriodToday},
		{message: "consumo da semana", want: enmmodels.PeriodWeek},
		{message: "usage for the week", want: enmmodels.PeriodWeek},
		{message: "qual o consumo do mês?", want: enmmodels.PeriodMonth},
		{message: "consumo do mes passado", want: enmmodels.PeriodMonth},
		{message: "e no mês passado?", want: enmmodels.PeriodMonth},
		{message: "último mês", want: enmmodels.PeriodMonth},
		{message: "ultimo mes", want: enmmodels.PeriodMonth},
		{message: "last month please", want: enmmodels.PeriodMonth},
		{message: "consumo total", want: enmmodels.PeriodTotal},
		{message: "todas as leituras", want: enmmodels.PeriodTotal},
		{message: "quanto gastei?", want: enmmodels.PeriodTotal},
		{message: "", want: enmmodels.PeriodTotal},
	}

	for _, tt := range tests {
		if got := parser.ExtractPeriod(tt.message); got != tt.want {
			t.Errorf("ExtractPeriod(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

// Matching order is a contract: matchers run in their listed order and the
// first hit wins, regardless of word positions in the message.
func TestExtractPeriodPrecedence(t *testing.T) {
	if got := parser.ExtractPeriod("total da semana"); got != enmmodels.PeriodWeek {
		t.Errorf("ExtractPeriod(\"total da semana\") = %q, want %q", got, enmmodels.PeriodWeek)
	}
	if got := parser.ExtractPeriod("no mes passado, não o total"); got != enmmodels.PeriodMonth {
		t.Errorf("ExtractPeriod month-vs-total = %q, want %q", got, enmmodels.PeriodMonth)
	}
}

func TestParseScenario(t *testing.T) {
	parsed := parser.Parse("Qual o consumo hoje do dispositivo 3?")

	if parsed.DeviceID == nil || *parsed.DeviceID != 3 {
		t.Errorf("DeviceID = %v, want 3", parsed.DeviceID)
	}
	if parsed.Period != enmmodels.PeriodToday {
		t.Errorf("Period = %q, want %q", parsed.Period, enmmodels.PeriodToday)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	message := "Quanto o device 2 consumiu na semana?"

	first := parser.Parse(message)
	second := parser.Parse(message)

	if first.Period != second.Period {
		t.Errorf("periods differ across runs: %q vs %q", first.Period, second.Period)
	}
	if (first.DeviceID == nil) != (second.DeviceID == nil) {
		t.Fatalf("device ids differ across runs: %v vs %v", first.DeviceID, second.DeviceID)
	}
	if first.DeviceID != nil && *first.DeviceID != *second.DeviceID {
		t.Errorf("device ids differ across runs: %d vs %d", *first.DeviceID, *second.DeviceID)
	}
}
