package main

import (
	"strconv"
	"time"
)

func getTimeStamp() int64 {
	return time.Now().UTC().UnixNano()
}

func intrg_contains(rg []int, item int) bool {
	for _, i := range rg {
		if i == item {
			return true
		}
	}
	return false
}

// candidateID turns a ballot selector ID back into a candidate ID.
func candidateID(selectorID string) int {
	id, err := strconv.Atoi(selectorID)
	if err != nil {
		return 0
	}
	return id
}
