/*
Package config loads and validates wellplan protocol files.

A protocol declares the reagents loaded on the deck (volume, wells and geometry), the tip pools,
and the ordered steps the robot performs. Files are YAML by default or JSON when the extension is
".json". Values can be overridden from the command line with "dotted.path=value" pairs, which is
how a lab adjusts the loaded volume of a reagent without editing the protocol.

	reagents:
	  - name: Beads
	    total_volume: 1500
	    well_count: 4
	    geometry: {cross_section_area: 63.61, cone_volume: 50}
	    rinse: true
	steps:
	  - action: pick_tip
	  - {action: aspirate, reagent: Beads, volume: 300, repeat: 4}
*/
package config
