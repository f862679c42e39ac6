// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Unknown is the sentinel for a delivery time or fee that could not be
// parsed. It sorts last in ascending order and never wins a comparison.
const Unknown = 999

var (
	leadingNumber = regexp.MustCompile(`\d+\.?\d*`)
	digitRun      = regexp.MustCompile(`\d+`)
)

// RawRating returns the first decimal number in a rating string, ignoring
// the review count: "4.3(120+)" gives 4.3.
func RawRating(rating string) (float64, bool) {
	m := leadingNumber.FindString(rating)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DeliveryMinutes returns the first integer in a delivery time string:
// "25-40 min" gives 25.
func DeliveryMinutes(deliveryTime string) (int, bool) {
	return firstInt(deliveryTime)
}

// DeliveryFee returns the first integer in a fee string: "৳ 35" gives 35.
// "Unknown", empty and a bare currency symbol are unparseable.
func DeliveryFee(fee string) (int, bool) {
	switch strings.TrimSpace(fee) {
	case "", "Unknown", "৳":
		return 0, false
	}
	return firstInt(fee)
}

// MinutesOrUnknown projects a delivery time for sorting and comparison.
func MinutesOrUnknown(deliveryTime string) int {
	if m, ok := DeliveryMinutes(deliveryTime); ok {
		return m
	}
	return Unknown
}

// FeeOrUnknown projects a delivery fee for sorting and comparison.
func FeeOrUnknown(fee string) int {
	if f, ok := DeliveryFee(fee); ok {
		return f
	}
	return Unknown
}

func firstInt(s string) (int, bool) {
	m := digitRun.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}
