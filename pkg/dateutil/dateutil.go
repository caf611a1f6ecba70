package dateutil

import (
	"time"
)

// Social Security claiming-age bounds. Benefits cannot start before 62, and
// delayed retirement credits stop accruing at 70.
const (
	SSEarliestClaimingAge = 62
	SSMaxClaimingAge      = 70
)

// Age calculates the age at a given date.
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeAtYear returns the age reached during a calendar year for a member born
// in birthYear.
func AgeAtYear(birthYear, year int) int {
	return year - birthYear
}

// BirthYearForAge returns the birth year implied by being a given age in a
// given calendar year.
func BirthYearForAge(age, asOfYear int) int {
	return asOfYear - age
}

// FullRetirementAge returns the Social Security Full Retirement Age for a
// birth year, rounded down to whole years for birth years whose statutory
// FRA includes months.
func FullRetirementAge(birthYear int) int {
	switch {
	case birthYear <= 1942:
		return 65
	case birthYear <= 1959:
		return 66
	default: // 1960 and later
		return 67
	}
}

// ClampClaimingAge clamps a claiming age to the valid Social Security range.
func ClampClaimingAge(age int) int {
	if age < SSEarliestClaimingAge {
		return SSEarliestClaimingAge
	}
	if age > SSMaxClaimingAge {
		return SSMaxClaimingAge
	}
	return age
}
