package service

import "fmt"

type postTemplate struct {
	author  string
	image   string
	content string
}

// defaultPosts are the starter notices inserted into an empty feed. %s is
// replaced by the area name.
var defaultPosts = []postTemplate{
	{
		author: "PoliceDept",
		image:  "images/accident.png",
		content: "A road accident took place early this morning near %s. A speeding truck lost control and hit several vehicles. " +
			"Fire brigade and local police reached the spot and injured people were taken to hospital. " +
			"Residents are urged to avoid the route until clearance work is complete.",
	},
	{
		author: "TrafficDept",
		image:  "images/traffic.png",
		content: "Heavy traffic congestion is reported around %s due to ongoing repair works and rainfall. " +
			"Buses and rickshaws are running late and traffic police have been deployed. Commuters should take alternative routes.",
	},
	{
		author: "BMC",
		image:  "images/fire.png",
		content: "A fire broke out this afternoon in a residential building in %s. Fire tenders evacuated the residents and no casualties have been reported. " +
			"Initial reports point to an electrical short circuit. Please keep away from the building while the inspection continues.",
	},
	{
		author: "CommunityGroup",
		content: "Residents of %s are organising a cleanliness and safety drive with local NGOs and civic bodies this weekend. " +
			"Volunteers will clean streets, clear garbage and run sanitation awareness camps. Everyone is welcome to join.",
	},
	{
		author: "Resident",
		content: "Water supply in %s will be interrupted tomorrow between 10 AM and 4 PM for pipeline maintenance. " +
			"Please store enough water in advance.",
	},
}

func (t postTemplate) render(area string) string {
	return fmt.Sprintf(t.content, area)
}
