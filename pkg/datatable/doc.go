// Package datatable answers server-side requests from the DataTables grid
// widget with squirrel-built SQL.
//
// # Pipeline
//
// A DataTable is built per request from a query source, the request
// parameters and a column list. Make runs these stages, always in this order:
//
//	┌───────────────────┬────────────────────────────────────────────────┐
//	│ Stage             │ Effect on the builder                          │
//	├───────────────────┼────────────────────────────────────────────────┤
//	│ count total       │ SELECT COUNT(*) FROM (source) → recordsTotal   │
//	│ resolve           │ columns → (name, dialect expression)           │
//	│ select            │ projection replaced by "expr AS name, ..."     │
//	│ filter            │ (c1 LIKE ? OR c2 LIKE ?) AND cN LIKE ? ...     │
//	│ count filtered    │ SELECT COUNT(*) FROM (filtered) → filtered     │
//	│ order             │ ORDER BY "name" ASC|DESC per directive         │
//	│ paginate          │ LIMIT length OFFSET start, skipped for -1      │
//	│ fetch and format  │ rows → Record or custom RowFormatter output    │
//	│ envelope          │ {draw, recordsTotal, recordsFiltered, data}    │
//	└───────────────────┴────────────────────────────────────────────────┘
//
// Plan runs the same stages without a database and returns the statements.
//
// # Columns
//
//	datatable.Simple("users.email")                  // name: email
//	datatable.Named("UPPER(d.name)", "department")   // name: department
//	datatable.Concat("first_name", "last_name")      // name: firstNameLastName
//
// The position of each column is the index the client uses in
// columns[i] / bSearchable_i / iSortCol_k.
//
// # Protocols
//
// Two wire protocols are supported through the Transformer interface:
//
//	┌──────────────────┬──────────────────────┬────────────────────────────┐
//	│ Concept          │ Legacy (1.9)         │ Modern (1.10+)             │
//	├──────────────────┼──────────────────────┼────────────────────────────┤
//	│ draw             │ sEcho                │ draw                       │
//	│ total            │ iTotalRecords        │ recordsTotal               │
//	│ filtered         │ iTotalDisplayRecords │ recordsFiltered            │
//	│ data             │ aaData               │ data                       │
//	│ offset / length  │ iDisplayStart/Length │ start / length             │
//	│ global search    │ sSearch              │ search[value]              │
//	│ column search    │ sSearch_i            │ columns[i][search][value]  │
//	│ searchable flag  │ bSearchable_i=true   │ presence of the value      │
//	│ sort             │ iSortCol_k/sSortDir_k│ order[k][column]/[dir]     │
//	│ sortable flag    │ bSortable_i=true     │ not checked                │
//	└──────────────────┴──────────────────────┴────────────────────────────┘
//
// The modern transformer is used unless WithTransformer says otherwise.
//
// # Usage
//
//	dt, err := datatable.New(db, sq.Select("*").From("users"),
//	    datatable.ParamsFromValues(r.URL.Query()),
//	    datatable.WithDialect(datatable.SQLite),
//	    datatable.WithColumns(
//	        datatable.Simple("id"),
//	        datatable.Concat("first_name", "last_name"),
//	    ),
//	)
//	if err != nil {
//	    return err
//	}
//	resp, err := dt.Make(ctx)
package datatable
