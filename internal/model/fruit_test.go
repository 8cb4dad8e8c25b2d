package model

import "testing"

func TestFruitStatus_Next_AdvancesInOrder(t *testing.T) {
	tests := []struct {
		name string
		from FruitStatus
		want FruitStatus
	}{
		{"First", StatusFirst, StatusSecond},
		{"Second", StatusSecond, StatusThird},
		{"Third", StatusThird, StatusFourth},
		{"Fourth", StatusFourth, StatusFifth},
		{"Fifth", StatusFifth, StatusSixth},
		{"Sixth", StatusSixth, StatusSeventh},
		// SEVENTH→COMPLETEDは収穫専用のため、Nextでは遷移しない
		{"Seventh_HarvestGate", StatusSeventh, StatusSeventh},
		{"Completed_Terminal", StatusCompleted, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Next(); got != tt.want {
				t.Errorf("%s.Next() = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestFruitStatus_Next_NeverGoesBackward(t *testing.T) {
	for _, s := range statusOrder {
		next := s.Next()
		if next.Index() < s.Index() {
			t.Errorf("%s.Next() = %s は巻き戻りしている", s, next)
		}
		if next.Index() > s.Index()+1 {
			t.Errorf("%s.Next() = %s は段階をスキップしている", s, next)
		}
	}
}

func TestFruitStatus_IsValid(t *testing.T) {
	for _, s := range statusOrder {
		if !s.IsValid() {
			t.Errorf("%s は有効な成長段階であるべき", s)
		}
	}
	if FruitStatus("UNKNOWN").IsValid() {
		t.Error("UNKNOWN は無効な成長段階であるべき")
	}
}

func TestStatusForMissionCount(t *testing.T) {
	tests := []struct {
		count int
		want  FruitStatus
	}{
		{0, StatusFirst},
		{1, StatusFirst},
		{2, StatusSecond},
		{3, StatusThird},
		{4, StatusFourth},
		{5, StatusFifth},
		{6, StatusSixth},
		{7, StatusSeventh},
		{8, StatusSeventh},
	}

	for _, tt := range tests {
		if got := StatusForMissionCount(tt.count); got != tt.want {
			t.Errorf("StatusForMissionCount(%d) = %s, want %s", tt.count, got, tt.want)
		}
	}
}
