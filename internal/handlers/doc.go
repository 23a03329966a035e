// Package handlers implements the HTTP API layer for the datatables service.
//
// Handlers delegate to the services layer and focus on parameter decoding,
// response formatting and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Parameter decoding (query, form, JSON)                       │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  TableService │ StatsService                                    │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬─────────────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint                │ Description                          │
//	├────────┼─────────────────────────┼──────────────────────────────────────┤
//	│ GET    │ /tables                 │ List grids and their columns         │
//	│ GET    │ /tables/{name}          │ DataTables request from query string │
//	│ POST   │ /tables/{name}          │ DataTables request from form or JSON │
//	│ GET    │ /tables/{name}/export   │ Matching rows as an xlsx workbook    │
//	│ GET    │ /stats                  │ Row counts of the grid base tables   │
//	└────────┴─────────────────────────┴──────────────────────────────────────┘
//
// # Table Handler
//
// Both DataTables protocol versions are accepted. The version is taken from
// the "protocol" parameter (legacy, modern or auto) or from the server
// configuration; auto answers with legacy keys when the request carries sEcho.
//
// Modern request:
//
//	/tables/users?draw=1&start=0&length=10&search[value]=john&order[0][column]=1&order[0][dir]=asc
//
// Modern response:
//
//	{
//	    "draw": 1,
//	    "recordsTotal": 10,
//	    "recordsFiltered": 3,
//	    "data": [{"0": 1, "1": "john smith", "DT_RowId": 1}]
//	}
//
// Legacy request:
//
//	/tables/users?sEcho=1&iDisplayStart=0&iDisplayLength=10&sSearch=john&iSortingCols=1&iSortCol_0=1&sSortDir_0=asc&bSortable_1=true
//
// Legacy response:
//
//	{
//	    "sEcho": 1,
//	    "iTotalRecords": 10,
//	    "iTotalDisplayRecords": 3,
//	    "aaData": [{"0": 1, "1": "john smith", "DT_RowId": 1}]
//	}
//
// The optional "filter" parameter narrows the filtered rows with an
// expression over the grid's column names:
//
//	department = "SALES" and (id > 3 or email like "example.org")
//
// # Error Handling
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ When                         │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ Body decoding error         │ 400    │ Malformed JSON or form body  │
//	│ InvalidRequestError         │ 400    │ Bad protocol or filter       │
//	│ ResourceNotFoundError       │ 404    │ Unknown table                │
//	│ Internal error              │ 500    │ Database failures            │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
//
// Errors use the format:
//
//	{ "error": "error message" }
package handlers
