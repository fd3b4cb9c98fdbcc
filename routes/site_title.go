/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/template"
)

const defaultSiteTitle = "Gn Starting Protocol Prediction"

// SiteTitleInjector sets the page title shown in every template.
func SiteTitleInjector(title string) flamego.Handler {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultSiteTitle
	}

	return func(data template.Data) {
		data["SiteTitle"] = title
		data["PageTitle"] = title
	}
}
