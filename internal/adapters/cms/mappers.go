package cms

import (
	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/infrastructure/clients/wixdata"
)

// Candidate-key tables, one per drifting attribute. Order is priority order;
// the first present, non-empty key wins. These tables are the single source
// of truth for how collection schemas have drifted.
var (
	hospitalNameKeys  = []string{"Hospital Name", "hospitalName", "name", "title"}
	hospitalLogoKeys  = []string{"Hospital Logo", "hospitalLogo", "logo"}
	hospitalImageKeys = []string{"Hospital Image", "hospitalImage", "image", "mainImage"}
	hospitalBedsKeys  = []string{"Number of Beds", "numberOfBeds", "bedCount", "beds"}
	hospitalYearKeys  = []string{"Year Established", "yearEstablished", "established"}
	hospitalDescKeys  = []string{"About Hospital", "aboutHospital", "description", "overview"}

	branchNameKeys    = []string{"Branch Name", "branchName", "name", "title"}
	branchAddressKeys = []string{"Branch Address", "branchAddress", "address", "location"}
	branchVisibleKeys = []string{"ShowHospital", "showHospital", "showPublicly", "visible"}

	doctorNameKeys = []string{"Doctor Name", "doctorName", "name", "title"}
	doctorSpecKeys = []string{"Specialization", "specialization", "specialty", "speciality"}
	doctorExpKeys  = []string{"Years of Experience", "yearsOfExperience", "experienceYears", "experience"}

	cityNameKeys = []string{"City Name", "cityName", "name", "title"}

	treatmentNameKeys = []string{"Treatment Name", "treatmentName", "name", "title"}
	treatmentDescKeys = []string{"Overview", "overview", "description", "about"}
	treatmentCostMin  = []string{"Minimum Cost", "minimumCost", "minCost", "costMin"}
	treatmentCostMax  = []string{"Maximum Cost", "maximumCost", "maxCost", "costMax"}
)

// Literal defaults applied when every candidate key is absent.
const (
	fallbackHospitalName  = "Hospital"
	fallbackBranchName    = "Branch"
	fallbackDoctorName    = "Doctor"
	fallbackCityName      = "Unknown City"
	fallbackCityCountry   = "India"
	fallbackTreatmentName = "Treatment"
)

// MapHospital transforms one raw hospital record into its canonical shape.
// The identifier is copied verbatim; records without one are unusable and
// filtered out by the adapter before mapping.
func MapHospital(raw wixdata.Record) entities.Hospital {
	return entities.Hospital{
		ID:              ResolveString(raw, "_id"),
		Slug:            ResolveString(raw, "slug", "link-hospital-slug"),
		Name:            ResolveStringOr(raw, fallbackHospitalName, hospitalNameKeys...),
		Image:           ResolveString(raw, hospitalImageKeys...),
		Logo:            ResolveString(raw, hospitalLogoKeys...),
		YearEstablished: SafeInt(Resolve(raw, hospitalYearKeys...), 0),
		Accreditation:   StringList(Resolve(raw, "Accreditation", "accreditation", "accreditations")),
		BedCount:        SafeInt(Resolve(raw, hospitalBedsKeys...), 0),
		Description:     ResolveString(raw, hospitalDescKeys...),
		Phone:           ResolveString(raw, "Phone", "phone", "contactNumber"),
		Email:           ResolveString(raw, "Email", "email", "contactEmail"),
		Rating:          SafeFloat(Resolve(raw, "Rating", "rating"), 0),
		CityID:          FirstRef(Resolve(raw, "City", "city", "cityId")),
		CountryID:       FirstRef(Resolve(raw, "Country", "country", "countryId")),
		BranchIDs:       NormalizeRefs(Resolve(raw, "Branches", "branches", "hospitalBranches")),
	}
}

// MapBranch transforms one raw branch record into its canonical shape.
func MapBranch(raw wixdata.Record) entities.Branch {
	cityField := Resolve(raw, "City", "city", "cities")
	var inlineCities map[string]entities.City
	if expanded := InlineRefObjects(cityField); len(expanded) > 0 {
		inlineCities = make(map[string]entities.City, len(expanded))
		for id, obj := range expanded {
			inlineCities[id] = PlaceholderCity(id, obj)
		}
	}
	return entities.Branch{
		ID:         ResolveString(raw, "_id"),
		Slug:       ResolveString(raw, "slug", "link-branch-slug"),
		Name:       ResolveStringOr(raw, fallbackBranchName, branchNameKeys...),
		Image:      ResolveString(raw, "Branch Image", "branchImage", "image"),
		Address:    ResolveString(raw, branchAddressKeys...),
		CityIDs:    NormalizeRefs(cityField),
		StateID:    FirstRef(Resolve(raw, "State", "state")),
		CountryID:  FirstRef(Resolve(raw, "Country", "country")),
		Phone:      ResolveString(raw, "Phone", "phone", "contactNumber"),
		Email:      ResolveString(raw, "Email", "email"),
		BedCount:   SafeInt(Resolve(raw, "Number of Beds", "numberOfBeds", "bedCount"), 0),
		ICUBeds:    SafeInt(Resolve(raw, "ICU Beds", "icuBeds"), 0),
		HospitalID: FirstRef(Resolve(raw, "Hospital", "hospital", "hospitalId")),
		DoctorIDs:  NormalizeRefs(Resolve(raw, "Doctors", "doctors", "branchDoctors")),
		Visible:    IsTruthy(Resolve(raw, branchVisibleKeys...)),

		InlineCities: inlineCities,
	}
}

// MapDoctor transforms one raw doctor record into its canonical shape.
func MapDoctor(raw wixdata.Record) entities.Doctor {
	return entities.Doctor{
		ID:                ResolveString(raw, "_id"),
		Slug:              ResolveString(raw, "slug", "link-doctor-slug"),
		Name:              ResolveStringOr(raw, fallbackDoctorName, doctorNameKeys...),
		Specialization:    ResolveString(raw, doctorSpecKeys...),
		Qualification:     ResolveString(raw, "Qualification", "qualification", "qualifications"),
		Designation:       ResolveString(raw, "Designation", "designation"),
		ExperienceYears:   SafeInt(Resolve(raw, doctorExpKeys...), 0),
		Languages:         StringList(Resolve(raw, "Languages", "languages", "languagesSpoken")),
		Bio:               ResolveString(raw, "Bio", "bio", "about"),
		ProfileImage:      ResolveString(raw, "Profile Image", "profileImage", "image"),
		Rating:            SafeFloat(Resolve(raw, "Rating", "rating"), 0),
		HospitalBranchIDs: NormalizeRefs(Resolve(raw, "branch", "Branch", "branches", "hospitalBranch")),
		CityID:            FirstRef(Resolve(raw, "City", "city", "cityId")),
		StateID:           FirstRef(Resolve(raw, "State", "state", "stateId")),
		CountryID:         FirstRef(Resolve(raw, "Country", "country", "countryId")),
		HospitalID:        FirstRef(Resolve(raw, "Hospital", "hospital", "hospitalId")),
	}
}

// MapCity transforms one raw city record into its canonical shape.
func MapCity(raw wixdata.Record) entities.City {
	return entities.City{
		ID:          ResolveString(raw, "_id"),
		Name:        ResolveStringOr(raw, fallbackCityName, cityNameKeys...),
		StateID:     FirstRef(Resolve(raw, "State", "state")),
		Country:     ResolveStringOr(raw, fallbackCityCountry, "Country", "country"),
		HospitalIDs: NormalizeRefs(Resolve(raw, "Hospitals", "hospitals")),
	}
}

// MapTreatment transforms one raw treatment record into its canonical shape.
func MapTreatment(raw wixdata.Record) entities.Treatment {
	return entities.Treatment{
		ID:            ResolveString(raw, "_id"),
		Slug:          ResolveString(raw, "slug", "link-treatment-slug"),
		Name:          ResolveStringOr(raw, fallbackTreatmentName, treatmentNameKeys...),
		Category:      ResolveString(raw, "Category", "category", "treatmentCategory"),
		Overview:      ResolveString(raw, treatmentDescKeys...),
		Image:         ResolveString(raw, "Treatment Image", "treatmentImage", "image"),
		Mode:          ResolveString(raw, "Mode", "mode", "treatmentMode"),
		MinCost:       SafeFloat(Resolve(raw, treatmentCostMin...), 0),
		MaxCost:       SafeFloat(Resolve(raw, treatmentCostMax...), 0),
		Duration:      ResolveString(raw, "Duration", "duration"),
		SuccessRate:   SafeFloat(Resolve(raw, "Success Rate", "successRate"), 0),
		Popular:       IsTruthy(Resolve(raw, "Popular", "popular", "isPopular")),
		Active:        IsTruthy(Resolve(raw, "Active", "active", "isActive")),
		BranchIDs:     NormalizeRefs(Resolve(raw, "Branches", "branches", "availableAt")),
		DepartmentIDs: NormalizeRefs(Resolve(raw, "Departments", "departments", "department")),
	}
}

// MapDepartment transforms one raw department record into its canonical shape.
func MapDepartment(raw wixdata.Record) entities.Department {
	return entities.Department{
		ID:   ResolveString(raw, "_id"),
		Name: ResolveStringOr(raw, "Department", "Department Name", "departmentName", "name", "title"),
	}
}

// PlaceholderCity synthesizes a minimal city from the inline fields of an
// unresolved reference. Used when the city index has no record for an ID.
func PlaceholderCity(id string, inline wixdata.Record) entities.City {
	city := entities.City{
		ID:          id,
		Name:        fallbackCityName,
		Country:     fallbackCityCountry,
		HospitalIDs: []string{},
		Placeholder: true,
	}
	if inline != nil {
		city.Name = ResolveStringOr(inline, fallbackCityName, cityNameKeys...)
		city.Country = ResolveStringOr(inline, fallbackCityCountry, "Country", "country")
	}
	return city
}
