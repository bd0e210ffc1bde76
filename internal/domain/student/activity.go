package student

// ActivityType identifies a loggable spiritual discipline.
// The wire values are stable identifiers shared with clients and storage.
type ActivityType string

const (
	ActivityQuran       ActivityType = "QURAN"
	ActivityRisale      ActivityType = "RISALE"
	ActivityPirlanta    ActivityType = "PIRLANTA"
	ActivityZikir       ActivityType = "ZIKIR"
	ActivityBookReading ActivityType = "BOOK_READING"
	ActivityNamaz       ActivityType = "NAMAZ"
)

// AllActivityTypes returns every known activity type.
func AllActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityQuran,
		ActivityRisale,
		ActivityPirlanta,
		ActivityZikir,
		ActivityBookReading,
		ActivityNamaz,
	}
}

// IsValid checks whether the activity type is one of the known disciplines.
func (a ActivityType) IsValid() bool {
	switch a {
	case ActivityQuran, ActivityRisale, ActivityPirlanta,
		ActivityZikir, ActivityBookReading, ActivityNamaz:
		return true
	}
	return false
}

// String returns the wire value.
func (a ActivityType) String() string {
	return string(a)
}

// DisplayName returns the Turkish label shown in clients.
func (a ActivityType) DisplayName() string {
	switch a {
	case ActivityQuran:
		return "Kur'an-ı Kerim"
	case ActivityRisale:
		return "Risale-i Nur"
	case ActivityPirlanta:
		return "Pırlanta Serisi"
	case ActivityZikir:
		return "Zikir & Tesbihat"
	case ActivityBookReading:
		return "Kitap Okuma"
	case ActivityNamaz:
		return "Namaz"
	default:
		return string(a)
	}
}

// Unit returns the Turkish unit the activity value is counted in.
func (a ActivityType) Unit() string {
	switch a {
	case ActivityZikir:
		return "adet"
	case ActivityNamaz:
		return "vakit"
	default:
		return "sayfa"
	}
}
