package api

import "fmt"

// planCatalog maps plan key and billing interval to the price in paise
// (INR minor units). Yearly pricing is ten months for the price of twelve.
var planCatalog = map[string]map[string]int64{
	PlanFree: {
		IntervalMonthly: 0,
		IntervalYearly:  0,
	},
	PlanDataPro: {
		IntervalMonthly: 79900,
		IntervalYearly:  799000,
	},
	PlanTrainPro: {
		IntervalMonthly: 149900,
		IntervalYearly:  1499000,
	},
	PlanDeployPro: {
		IntervalMonthly: 249900,
		IntervalYearly:  2499000,
	},
	PlanEnterprise: {
		IntervalMonthly: 499900,
		IntervalYearly:  4999000,
	},
}

// PlanCurrency is the currency for all catalog prices
const PlanCurrency = "INR"

// PlanPrice returns the catalog price in paise for a plan and billing interval
func PlanPrice(planKey, interval string) (int64, error) {
	intervals, ok := planCatalog[planKey]
	if !ok {
		return 0, fmt.Errorf("unknown plan: %s", planKey)
	}
	price, ok := intervals[interval]
	if !ok {
		return 0, fmt.Errorf("unknown billing interval: %s", interval)
	}
	return price, nil
}
