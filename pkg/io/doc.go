// Package io reads ontology rows and writes annotated forests.
//
// # TSV Rows
//
// Input files are tab-separated with a header line. Columns are matched by
// name, case-insensitively, so their order does not matter:
//
//	ID	Parent	Label	Description	Count	Color
//	C01		Infections	Bacterial and viral	0
//	C01.001	C01	Bacterial Infections		5	#403C53
//
// Only ID is required. A Comment column is read when present and any other
// column is kept in the node metadata under its header name. Use [ReadTSV]
// for any io.Reader or [ImportTSV] for a file path.
//
// [WriteTSV] writes an annotated forest back in the same six-column layout,
// with the colors computed by aggregation, so the output can be edited and
// re-imported.
//
// # JSON Traces
//
// [WriteJSON] exports one trace per branch as parallel arrays, the shape
// sunburst renderers consume:
//
//	{
//	  "branches": [
//	    {
//	      "id": "C01",
//	      "ids": ["C01", "C01.001"],
//	      "parents": ["", "C01"],
//	      "labels": ["Infections", "Bacterial Infections"],
//	      "values": [5.000001337, 5],
//	      "colors": ["#FFFFFF", "#C33D35"],
//	      ...
//	    }
//	  ]
//	}
//
// "values" holds the propagated counts and "counts" the original ones.
// "original_ids" is written only when assembly minted "_N" IDs.
// [ReadJSON] rebuilds a forest from a trace file, so a built forest can be
// re-rendered without repeating assembly.
package io
