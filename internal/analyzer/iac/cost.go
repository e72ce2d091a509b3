package iac

import "strings"

// monthlyCostByResourceType is the fixed $/month table used to estimate the
// cost impact of newly created resources (spec §4.4). Unknown resource
// types contribute $0 — the estimate is deliberately conservative, not
// exhaustive.
var monthlyCostByResourceType = map[string]float64{
	"aws_instance":            50,
	"aws_db_instance":         100,
	"aws_elasticache_cluster": 75,
	"aws_eks_cluster":         150,
	"aws_lb":                  25,
	"aws_alb":                 25,
	"aws_nat_gateway":         45,
}

func resourceMonthlyCost(resourceType string) float64 {
	if v, ok := monthlyCostByResourceType[strings.ToLower(resourceType)]; ok {
		return v
	}
	return 0
}

// estimateCost sums the monthly cost of every newly created resource type
// and returns the total alongside whether it crosses thresholdUSD.
func estimateCost(createdResourceTypes []string, thresholdUSD float64) (total float64, overThreshold bool) {
	for _, t := range createdResourceTypes {
		total += resourceMonthlyCost(t)
	}
	return total, total > thresholdUSD
}
