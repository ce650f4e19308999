package station

import "github.com/mumbaitransit/mumbaitransit/internal/fare"

var (
	suburbanBasic = []Facility{FacilityTicketCounter, FacilityATVM, FacilityFootOverbridge}
	suburbanMajor = []Facility{
		FacilityTicketCounter, FacilityATVM, FacilityFootOverbridge, FacilityEscalator,
		FacilityLift, FacilityWheelchair, FacilityRestroom, FacilityParking,
	}
	metroStandard = []Facility{FacilityTicketCounter, FacilityEscalator, FacilityLift, FacilityWheelchair, FacilityWiFi}
	monorailStd   = []Facility{FacilityTicketCounter, FacilityLift, FacilityWheelchair}
)

type stop struct {
	id    string
	name  string
	km    float64
	major bool
}

func lineStations(line fare.LineID, standard, major []Facility, stops []stop) []Station {
	out := make([]Station, 0, len(stops))
	for _, s := range stops {
		fac := standard
		if s.major {
			fac = major
		}
		out = append(out, Station{
			ID:                   s.id,
			Name:                 s.name,
			Line:                 line,
			DistanceFromOriginKm: s.km,
			Facilities:           fac,
		})
	}
	return out
}

// DefaultStations returns the built-in station list. Interchanges appear once
// per line with a line-specific id.
func DefaultStations() []Station {
	var all []Station

	all = append(all, lineStations(fare.LineWestern, suburbanBasic, suburbanMajor, []stop{
		{"CCG", "Churchgate", 0, true},
		{"MEL", "Marine Lines", 1.3, false},
		{"CYR", "Charni Road", 2.1, false},
		{"GTR", "Grant Road", 3.0, false},
		{"BCT", "Mumbai Central", 4.0, true},
		{"MX", "Mahalaxmi", 5.4, false},
		{"PL", "Lower Parel", 6.6, false},
		{"PBHD", "Prabhadevi", 7.8, false},
		{"DDR", "Dadar (Western)", 9.0, true},
		{"MRU", "Matunga Road", 10.2, false},
		{"MM", "Mahim Junction", 11.1, false},
		{"BA", "Bandra", 14.7, true},
		{"KHR", "Khar Road", 16.0, false},
		{"STC", "Santacruz", 17.5, false},
		{"VLP", "Vile Parle", 19.0, false},
		{"ADH", "Andheri", 21.5, true},
		{"JOS", "Jogeshwari", 23.6, false},
		{"RMAR", "Ram Mandir", 24.9, false},
		{"GMN", "Goregaon", 26.5, false},
		{"MDD", "Malad", 30.0, false},
		{"KILE", "Kandivali", 32.0, false},
		{"BVI", "Borivali", 34.0, true},
		{"DIC", "Dahisar", 36.0, false},
		{"MIRA", "Mira Road", 39.5, false},
		{"BYR", "Bhayandar", 42.5, false},
		{"VR", "Virar", 59.9, true},
	})...)

	all = append(all, lineStations(fare.LineCentral, suburbanBasic, suburbanMajor, []stop{
		{"CSMT", "Chhatrapati Shivaji Maharaj Terminus", 0, true},
		{"MSD", "Masjid", 1.2, false},
		{"SNRD", "Sandhurst Road", 2.0, false},
		{"BY", "Byculla", 4.5, false},
		{"CHG", "Chinchpokli", 5.6, false},
		{"CRD", "Currey Road", 6.6, false},
		{"PR", "Parel", 7.8, false},
		{"DR", "Dadar (Central)", 9.0, true},
		{"MTN", "Matunga", 10.2, false},
		{"SIN", "Sion", 12.2, false},
		{"CLA", "Kurla", 15.3, true},
		{"VVH", "Vidyavihar", 17.0, false},
		{"GC", "Ghatkopar", 19.4, true},
		{"VK", "Vikhroli", 22.7, false},
		{"KJMG", "Kanjurmarg", 24.2, false},
		{"BND", "Bhandup", 25.9, false},
		{"MLND", "Mulund", 30.4, false},
		{"TNA", "Thane", 33.9, true},
		{"DI", "Dombivli", 48.4, false},
		{"KYN", "Kalyan", 53.6, true},
	})...)

	all = append(all, lineStations(fare.LineHarbour, suburbanBasic, suburbanMajor, []stop{
		{"CSMT-H", "Chhatrapati Shivaji Maharaj Terminus (Harbour)", 0, true},
		{"DKRD", "Dockyard Road", 3.8, false},
		{"RRD", "Reay Road", 4.6, false},
		{"CTGN", "Cotton Green", 5.4, false},
		{"SVE", "Sewri", 6.8, false},
		{"VDLR", "Vadala Road", 8.5, true},
		{"GTBN", "Guru Tegh Bahadur Nagar", 10.5, false},
		{"CLA-H", "Kurla (Harbour)", 13.6, true},
		{"CMBR", "Chembur", 16.4, false},
		{"GV", "Govandi", 17.7, false},
		{"MNKD", "Mankhurd", 19.2, false},
		{"VSH", "Vashi", 25.6, true},
		{"NEU", "Nerul", 31.1, false},
		{"BEPR", "CBD Belapur", 35.3, true},
		{"PNVL", "Panvel", 48.9, true},
	})...)

	all = append(all, lineStations(fare.LineTransHarbour, suburbanBasic, suburbanMajor, []stop{
		{"TNA-T", "Thane (Trans-Harbour)", 0, true},
		{"AIRL", "Airoli", 5.9, false},
		{"RABE", "Rabale", 8.6, false},
		{"GNSL", "Ghansoli", 11.0, false},
		{"KPHN", "Kopar Khairane", 13.7, false},
		{"TUH", "Turbhe", 16.5, false},
		{"SNPD", "Sanpada", 19.3, false},
		{"VSH-T", "Vashi (Trans-Harbour)", 20.6, true},
	})...)

	all = append(all, lineStations(fare.LineMetro1, metroStandard, metroStandard, []stop{
		{"M1-VER", "Versova", 0, false},
		{"M1-DNN", "D N Nagar", 1.0, false},
		{"M1-AZN", "Azad Nagar", 1.9, false},
		{"M1-AND", "Andheri", 3.0, false},
		{"M1-WEH", "Western Express Highway", 4.0, false},
		{"M1-CHK", "Chakala", 4.9, false},
		{"M1-APR", "Airport Road", 5.8, false},
		{"M1-MRN", "Marol Naka", 6.6, false},
		{"M1-SKN", "Saki Naka", 7.6, false},
		{"M1-ASL", "Asalpha", 9.0, false},
		{"M1-JGN", "Jagruti Nagar", 10.2, false},
		{"M1-GKP", "Ghatkopar", 11.4, false},
	})...)

	all = append(all, lineStations(fare.LineMetro2A, metroStandard, metroStandard, []stop{
		{"M2A-DHS", "Dahisar", 0, false},
		{"M2A-BVW", "Borivali West", 3.4, false},
		{"M2A-KDW", "Kandivali West", 6.9, false},
		{"M2A-MLW", "Malad West", 10.0, false},
		{"M2A-GGW", "Goregaon West", 12.7, false},
		{"M2A-OSH", "Oshiwara", 14.9, false},
		{"M2A-LOS", "Lower Oshiwara", 16.0, false},
		{"M2A-ADW", "Andheri West", 18.6, false},
	})...)

	all = append(all, lineStations(fare.LineMetro7, metroStandard, metroStandard, []stop{
		{"M7-DHE", "Dahisar East", 0, false},
		{"M7-OVP", "Ovaripada", 1.2, false},
		{"M7-NPK", "National Park", 3.0, false},
		{"M7-DVP", "Devipada", 4.1, false},
		{"M7-MGT", "Magathane", 5.0, false},
		{"M7-PSR", "Poisar", 6.8, false},
		{"M7-AKR", "Akurli", 7.9, false},
		{"M7-KRR", "Kurar", 9.0, false},
		{"M7-DND", "Dindoshi", 10.0, false},
		{"M7-ARY", "Aarey", 11.6, false},
		{"M7-GGE", "Goregaon East", 12.7, false},
		{"M7-JGE", "Jogeshwari East", 13.9, false},
		{"M7-MGR", "Mogra", 14.8, false},
		{"M7-GDV", "Gundavali", 16.5, false},
	})...)

	all = append(all, lineStations(fare.LineMonorail, monorailStd, monorailStd, []stop{
		{"MR-CHM", "Chembur", 0, false},
		{"MR-VNP", "V N Purav Marg", 1.2, false},
		{"MR-FTT", "Fertiliser Township", 2.3, false},
		{"MR-BPC", "Bharat Petroleum", 3.3, false},
		{"MR-MYC", "Mysore Colony", 4.3, false},
		{"MR-BKP", "Bhakti Park", 5.6, false},
		{"MR-WDD", "Wadala Depot", 8.8, false},
		{"MR-GTB", "GTB Nagar", 10.0, false},
		{"MR-ANH", "Antop Hill", 11.0, false},
		{"MR-AAN", "Acharya Atre Nagar", 14.0, false},
		{"MR-SGM", "Sant Gadge Maharaj Chowk", 19.5, false},
	})...)

	return all
}
