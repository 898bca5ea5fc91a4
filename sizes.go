/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "strconv"

// humanReadableSize formats bytes with decimal (SI) prefixes.
func humanReadableSize(bytes int64) string {
	const units = "kMGTPE"

	if bytes < 1000 {
		return strconv.FormatInt(bytes, 10) + " B"
	}

	value := float64(bytes)
	exp := -1
	for value >= 1000 && exp < len(units)-1 {
		value /= 1000
		exp++
	}

	return strconv.FormatFloat(value, 'f', 1, 64) + " " + string(units[exp]) + "B"
}
