// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// General API information for swag. The generated document lives in the
// docs package and is served at /swagger/index.html.
//
// @title Khaboki API
// @version 1.0
// @description Search food delivery platforms around a location, compare restaurants and get a surprise pick.
// @description
// @description ## Error Responses
// @description
// @description Every response uses the same envelope:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "NO_RESULTS", "message": "Search for restaurants first"},
// @description   "metadata": {"timestamp": "2026-10-19T12:34:56Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/khaboki/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5050
// @BasePath /api/v1
// @schemes http
//
// @tag.name Core
// @tag.description Health checks
//
// @tag.name Search
// @tag.description Restaurant search, filtered result views and rating normalization
//
// @tag.name Compare
// @tag.description Side-by-side comparison of up to three restaurants
//
// @tag.name Surprise
// @tag.description AI or random restaurant suggestions
//
// @tag.name Cache
// @tag.description Result cache management
//
// @tag.name Dataset
// @tag.description Scrape backend dataset statistics and export
//
// @tag.name Events
// @tag.description WebSocket notifications

package main
