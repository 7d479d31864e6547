package aws

import (
	"fmt"
	"strings"

	"storecheck/pkg/errors"
)

// RegionMapping maps region shortcodes to AWS region names
var RegionMapping = map[string]string{
	"cac1":  "ca-central-1",
	"caw1":  "ca-west-1",
	"use1":  "us-east-1",
	"use2":  "us-east-2",
	"usw1":  "us-west-1",
	"usw2":  "us-west-2",
	"euw1":  "eu-west-1",
	"euw2":  "eu-west-2",
	"euw3":  "eu-west-3",
	"euc1":  "eu-central-1",
	"eun1":  "eu-north-1",
	"aps1":  "ap-south-1",
	"apse1": "ap-southeast-1",
	"apse2": "ap-southeast-2",
	"apne1": "ap-northeast-1",
	"apne2": "ap-northeast-2",
	"sae1":  "sa-east-1",
}

var validRegionPrefixes = map[string]bool{
	"us": true, "eu": true, "ap": true, "ca": true, "sa": true,
	"me": true, "af": true, "cn": true, "il": true, "mx": true, "us-gov": true,
}

var validRegionAreas = map[string]bool{
	"east": true, "west": true, "north": true, "south": true, "central": true,
	"northeast": true, "southeast": true, "northwest": true, "southwest": true,
}

// IsValidAWSRegion validates if a string is a properly formatted AWS region
// (xx-area-n, or us-gov-area-n).
func IsValidAWSRegion(region string) bool {
	parts := strings.Split(region, "-")
	if len(parts) == 4 && parts[0] == "us" && parts[1] == "gov" {
		parts = []string{"us-gov", parts[2], parts[3]}
	}
	if len(parts) != 3 {
		return false
	}

	if !validRegionPrefixes[parts[0]] || !validRegionAreas[parts[1]] {
		return false
	}

	// Regions are numbered from 1
	n := parts[2]
	if len(n) < 1 || len(n) > 2 || n == "0" {
		return false
	}
	for _, char := range n {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}

// ResolveRegion accepts a shortcode (cac1) or a full region name (ca-central-1) and
// returns the full region name.
func ResolveRegion(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.NewValidationError("region cannot be empty")
	}

	if full, ok := RegionMapping[strings.ToLower(input)]; ok {
		return full, nil
	}
	if IsValidAWSRegion(input) {
		return input, nil
	}

	return "", errors.NewValidationError(fmt.Sprintf("invalid region %q: must be a valid AWS region (e.g., us-east-1) or shortcode (e.g., use1)", input))
}
