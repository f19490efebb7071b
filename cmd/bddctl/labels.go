package main

import (
	"strings"

	"github.com/cposada23/BDDPlaywrightFramework/internal/allure"
	"github.com/cposada23/BDDPlaywrightFramework/internal/slice"
)

// parseLabels turns the allure flags into labels added to every result.
// Custom labels are comma separated key:value pairs; malformed pairs are
// dropped.
func parseLabels(suite, tags, layers, custom string) []allure.Label {
	var labels []allure.Label
	if len(strings.TrimSpace(suite)) > 0 {
		labels = append(
			labels, allure.Label{
				Name:  allure.LabelSuite,
				Value: strings.TrimSpace(suite),
			},
		)
	}

	filterEmptyStrFn := func(v string) bool {
		return len(strings.TrimSpace(v)) > 0
	}

	filterCustomLabelsStrFn := func(v string) bool {
		tokens := strings.Split(v, ":")
		return len(tokens) == 2 && len(strings.TrimSpace(tokens[0])) > 0 && len(strings.TrimSpace(tokens[1])) > 0
	}

	mapLabelsStrFn := func(t string) allure.Label {
		tokens := strings.Split(t, ":")

		return allure.Label{
			Name:  strings.TrimSpace(tokens[0]),
			Value: strings.TrimSpace(tokens[1]),
		}
	}

	mapCustomLabelsFunc := func(name string) func(t string) allure.Label {
		return func(t string) allure.Label {
			return allure.Label{
				Name:  name,
				Value: strings.TrimPrefix(strings.TrimSpace(t), "@"),
			}
		}
	}

	if len(tags) > 0 {
		labels = append(
			labels, slice.Map(
				slice.Filter(strings.Split(tags, ","), filterEmptyStrFn),
				mapCustomLabelsFunc(allure.LabelTag),
			)...,
		)
	}

	if len(layers) > 0 {
		labels = append(
			labels, slice.Map(
				slice.Filter(strings.Split(layers, ","), filterEmptyStrFn),
				mapCustomLabelsFunc("layer"),
			)...,
		)
	}

	if len(custom) > 0 {
		labels = append(
			labels, slice.Map(
				slice.Filter(
					slice.Filter(strings.Split(custom, ","), filterEmptyStrFn),
					filterCustomLabelsStrFn,
				), mapLabelsStrFn,
			)...,
		)
	}

	return labels
}
