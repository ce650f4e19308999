package route

// DefaultRoutes returns the built-in Mumbai route catalogue.
func DefaultRoutes() []Route {
	var out []Route
	out = append(out, busRoutes...)
	out = append(out, trainRoutes...)
	out = append(out, metroRoutes...)
	out = append(out, monorailRoutes...)
	out = append(out, ferryRoutes...)
	return out
}

var busRoutes = []Route{
	{ID: "1", Mode: ModeBus, Name: "1", From: "Colaba Depot", To: "Mahim Bus Station", TravelTimeMinutes: 75, Fare: 20},
	{ID: "1LTD", Mode: ModeBus, Name: "1 Limited", From: "Colaba Depot", To: "Mahim Bus Station", TravelTimeMinutes: 60, Fare: 25},
	{ID: "3", Mode: ModeBus, Name: "3", From: "Navy Nagar", To: "JJ Hospital", TravelTimeMinutes: 45, Fare: 10},
	{ID: "21LTD", Mode: ModeBus, Name: "21 Limited", From: "Colaba Depot", To: "Deonar Depot", TravelTimeMinutes: 95, Fare: 30},
	{ID: "28", Mode: ModeBus, Name: "28", From: "Bandra Reclamation", To: "Santacruz Depot", TravelTimeMinutes: 35, Fare: 10},
	{ID: "33", Mode: ModeBus, Name: "33", From: "Worli Depot", To: "Sewri", TravelTimeMinutes: 30, Fare: 10},
	{ID: "83", Mode: ModeBus, Name: "83", From: "Colaba Depot", To: "Kurla Station West", TravelTimeMinutes: 85, Fare: 25},
	{ID: "84LTD", Mode: ModeBus, Name: "84 Limited", From: "Andheri Station West", To: "Wadala Depot", TravelTimeMinutes: 80, Fare: 25},
	{ID: "111", Mode: ModeBus, Name: "111", From: "Backbay Depot", To: "Mahim Bus Station", TravelTimeMinutes: 70, Fare: 20},
	{ID: "138", Mode: ModeBus, Name: "138", From: "CSMT", To: "Backbay Depot", TravelTimeMinutes: 20, Fare: 6},
	{ID: "202", Mode: ModeBus, Name: "202", From: "Mahim Bus Station", To: "Borivali Station East", TravelTimeMinutes: 90, Fare: 25},
	{ID: "211", Mode: ModeBus, Name: "211", From: "Bandra Station West", To: "Bandstand", TravelTimeMinutes: 20, Fare: 6},
	{ID: "242", Mode: ModeBus, Name: "242", From: "Bandra Station", To: "Worli", TravelTimeMinutes: 40, Fare: 15},
	{ID: "251", Mode: ModeBus, Name: "251", From: "Andheri Station West", To: "Versova", TravelTimeMinutes: 25, Fare: 10},
	{ID: "303", Mode: ModeBus, Name: "303", From: "Kurla Station East", To: "Mulund Check Naka", TravelTimeMinutes: 60, Fare: 15},
	{ID: "310", Mode: ModeBus, Name: "310", From: "Kurla Station West", To: "Bandra Bus Station", TravelTimeMinutes: 35, Fare: 10},
	{ID: "332", Mode: ModeBus, Name: "332", From: "Andheri Station East", To: "Kurla Station West", TravelTimeMinutes: 45, Fare: 15},
	{ID: "340", Mode: ModeBus, Name: "340", From: "Ghatkopar Depot", To: "Andheri Station East", TravelTimeMinutes: 55, Fare: 15},
	{ID: "350", Mode: ModeBus, Name: "350", From: "Andheri Station East", To: "Powai Hiranandani", TravelTimeMinutes: 35, Fare: 10},
	{ID: "373", Mode: ModeBus, Name: "373", From: "Bandra Terminus", To: "Bandra East Kalanagar", TravelTimeMinutes: 20, Fare: 6},
	{ID: "A-48", Mode: ModeBus, Name: "AC 48", From: "Backbay Depot", To: "BANDRA EAST", TravelTimeMinutes: 65, Fare: 30},
	{ID: "A-74", Mode: ModeBus, Name: "AC 74", From: "Santacruz Depot", To: "Dharavi Depot", TravelTimeMinutes: 40, Fare: 20},
	{ID: "C-10", Mode: ModeBus, Name: "Corridor 10", From: "Santacruz Depot", To: "Bandra Kurla Complex", TravelTimeMinutes: 25, Fare: 15},
	{ID: "C-52", Mode: ModeBus, Name: "Corridor 52", From: "Borivali Station East", To: "Thane Station West", TravelTimeMinutes: 70, Fare: 30},
	{ID: "C-72", Mode: ModeBus, Name: "Corridor 72", From: "Sion", To: "Thane Station West", TravelTimeMinutes: 60, Fare: 25},
	{ID: "C-79", Mode: ModeBus, Name: "Corridor 79", From: "Andheri Station East", To: "Vikhroli Depot", TravelTimeMinutes: 45, Fare: 20},
	{ID: "C-305", Mode: ModeBus, Name: "Corridor 305", From: "Bandra Kurla Complex", To: "Kurla Station West", TravelTimeMinutes: 20, Fare: 10},
}

var trainRoutes = []Route{
	{ID: "WR-S-CCG-VR", Mode: ModeTrain, Name: "Western Slow", From: "Churchgate", To: "Virar", TravelTimeMinutes: 115, Fare: 30},
	{ID: "WR-F-CCG-BVI", Mode: ModeTrain, Name: "Western Fast", From: "Churchgate", To: "Borivali", TravelTimeMinutes: 55, Fare: 20},
	{ID: "WR-S-CCG-ADH", Mode: ModeTrain, Name: "Western Slow", From: "Churchgate", To: "Andheri", TravelTimeMinutes: 45, Fare: 15},
	{ID: "WR-S-BA-BVI", Mode: ModeTrain, Name: "Western Slow", From: "Bandra", To: "Borivali", TravelTimeMinutes: 35, Fare: 15},
	{ID: "CR-S-CSMT-KYN", Mode: ModeTrain, Name: "Central Slow", From: "CSMT", To: "Kalyan", TravelTimeMinutes: 95, Fare: 25},
	{ID: "CR-F-CSMT-TNA", Mode: ModeTrain, Name: "Central Fast", From: "CSMT", To: "Thane", TravelTimeMinutes: 45, Fare: 15},
	{ID: "CR-S-DR-TNA", Mode: ModeTrain, Name: "Central Slow", From: "Dadar", To: "Thane", TravelTimeMinutes: 40, Fare: 15},
	{ID: "HR-CSMT-PNVL", Mode: ModeTrain, Name: "Harbour", From: "CSMT", To: "Panvel", TravelTimeMinutes: 90, Fare: 25},
	{ID: "HR-CSMT-ADH", Mode: ModeTrain, Name: "Harbour", From: "CSMT", To: "Andheri", TravelTimeMinutes: 55, Fare: 15},
	{ID: "THB-TNA-VSH", Mode: ModeTrain, Name: "Trans-Harbour", From: "Thane", To: "Vashi", TravelTimeMinutes: 30, Fare: 10},
	{ID: "THB-TNA-PNVL", Mode: ModeTrain, Name: "Trans-Harbour", From: "Thane", To: "Panvel", TravelTimeMinutes: 55, Fare: 20},
}

var metroRoutes = []Route{
	{ID: "M1-UP", Mode: ModeMetro, Name: "Metro Line 1", From: "Versova", To: "Ghatkopar", TravelTimeMinutes: 21, Fare: 30},
	{ID: "M1-DN", Mode: ModeMetro, Name: "Metro Line 1", From: "Ghatkopar", To: "Versova", TravelTimeMinutes: 21, Fare: 30},
	{ID: "M2A-UP", Mode: ModeMetro, Name: "Metro Line 2A", From: "Dahisar East", To: "Andheri West", TravelTimeMinutes: 35, Fare: 40},
	{ID: "M2A-DN", Mode: ModeMetro, Name: "Metro Line 2A", From: "Andheri West", To: "Dahisar East", TravelTimeMinutes: 35, Fare: 40},
	{ID: "M7-UP", Mode: ModeMetro, Name: "Metro Line 7", From: "Dahisar East", To: "Gundavali", TravelTimeMinutes: 32, Fare: 40},
	{ID: "M7-DN", Mode: ModeMetro, Name: "Metro Line 7", From: "Gundavali", To: "Dahisar East", TravelTimeMinutes: 32, Fare: 40},
}

var monorailRoutes = []Route{
	{ID: "MR-UP", Mode: ModeMonorail, Name: "Monorail", From: "Chembur", To: "Sant Gadge Maharaj Chowk", TravelTimeMinutes: 38, Fare: 40},
	{ID: "MR-DN", Mode: ModeMonorail, Name: "Monorail", From: "Sant Gadge Maharaj Chowk", To: "Chembur", TravelTimeMinutes: 38, Fare: 40},
}

var ferryRoutes = []Route{
	{ID: "F-GOI-ELE", Mode: ModeFerry, Name: "Elephanta Ferry", From: "Gateway of India", To: "Elephanta Caves", TravelTimeMinutes: 60, Fare: 260},
	{ID: "F-GOI-MDW", Mode: ModeFerry, Name: "Mandwa Ferry", From: "Gateway of India", To: "Mandwa Jetty", TravelTimeMinutes: 45, Fare: 215},
	{ID: "F-FCW-RVS", Mode: ModeFerry, Name: "Ro-Ro Ferry", From: "Ferry Wharf", To: "Mandwa Jetty", TravelTimeMinutes: 60, Fare: 300},
	{ID: "F-VSV-MDI", Mode: ModeFerry, Name: "Madh Ferry", From: "Versova Jetty", To: "Madh Jetty", TravelTimeMinutes: 10, Fare: 10},
}
