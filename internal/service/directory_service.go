package service

import (
	"sort"
	"strings"

	"healthmate-be/internal/domain"
)

// directoryService serves the hardcoded doctor directory with client-style
// filtering. All data is in memory; there is no backing store.
type directoryService struct {
	doctors []domain.Doctor
}

// NewDirectoryService creates the doctor directory
func NewDirectoryService() DirectoryService {
	return &directoryService{doctors: doctorDirectory}
}

// Filter returns doctors matching a search term, specialty and minimum
// rating. The search term matches name or specialty, case-insensitive; empty
// arguments match everything.
func (s *directoryService) Filter(search, specialty string, minRating float64) []domain.Doctor {
	needle := strings.ToLower(strings.TrimSpace(search))

	matched := make([]domain.Doctor, 0, len(s.doctors))
	for _, doctor := range s.doctors {
		if needle != "" &&
			!strings.Contains(strings.ToLower(doctor.Name), needle) &&
			!strings.Contains(strings.ToLower(doctor.Specialty), needle) {
			continue
		}
		if specialty != "" && doctor.Specialty != specialty {
			continue
		}
		if doctor.Rating < minRating {
			continue
		}
		matched = append(matched, doctor)
	}
	return matched
}

// Specialties returns the distinct specialties in the directory, sorted
func (s *directoryService) Specialties() []string {
	seen := make(map[string]bool, len(s.doctors))
	specialties := make([]string, 0, len(s.doctors))
	for _, doctor := range s.doctors {
		if !seen[doctor.Specialty] {
			seen[doctor.Specialty] = true
			specialties = append(specialties, doctor.Specialty)
		}
	}
	sort.Strings(specialties)
	return specialties
}

var doctorDirectory = []domain.Doctor{
	{
		ID: "1", Name: "Dr. Sarah Johnson", Specialty: "Cardiology",
		Rating: 4.8, Experience: 15, Location: "Apollo Hospital, Bangalore",
		Distance: "2.3 km", Available: true, NextAvailable: "Today, 3:00 PM",
		ConsultationFee: 1200, Languages: []string{"English", "Hindi", "Kannada"},
		Education: "MBBS, MD - Cardiology", Verified: true,
	},
	{
		ID: "2", Name: "Dr. Rajesh Kumar", Specialty: "Neurology",
		Rating: 4.6, Experience: 12, Location: "Fortis Hospital, Bangalore",
		Distance: "3.1 km", Available: false, NextAvailable: "Tomorrow, 10:00 AM",
		ConsultationFee: 1500, Languages: []string{"English", "Hindi", "Tamil"},
		Education: "MBBS, MD - Neurology", Verified: true,
	},
	{
		ID: "3", Name: "Dr. Priya Sharma", Specialty: "Pediatrics",
		Rating: 4.9, Experience: 8, Location: "Manipal Hospital, Bangalore",
		Distance: "4.2 km", Available: true, NextAvailable: "Today, 5:30 PM",
		ConsultationFee: 1000, Languages: []string{"English", "Hindi"},
		Education: "MBBS, MD - Pediatrics", Verified: true,
	},
	{
		ID: "4", Name: "Dr. Amit Patel", Specialty: "Orthopedics",
		Rating: 4.5, Experience: 18, Location: "City General Hospital, Bangalore",
		Distance: "1.8 km", Available: true, NextAvailable: "Today, 2:00 PM",
		ConsultationFee: 1300, Languages: []string{"English", "Hindi", "Gujarati"},
		Education: "MBBS, MS - Orthopedics", Verified: true,
	},
	{
		ID: "5", Name: "Dr. Kavita Reddy", Specialty: "Dermatology",
		Rating: 4.7, Experience: 10, Location: "Apollo Hospital, Bangalore",
		Distance: "2.3 km", Available: false, NextAvailable: "Tomorrow, 11:00 AM",
		ConsultationFee: 1100, Languages: []string{"English", "Hindi", "Telugu"},
		Education: "MBBS, MD - Dermatology", Verified: true,
	},
	{
		ID: "6", Name: "Dr. Suresh Menon", Specialty: "Psychiatry",
		Rating: 4.4, Experience: 14, Location: "NIMHANS, Bangalore",
		Distance: "5.0 km", Available: true, NextAvailable: "Today, 4:00 PM",
		ConsultationFee: 1400, Languages: []string{"English", "Hindi", "Malayalam"},
		Education: "MBBS, MD - Psychiatry", Verified: true,
	},
}
