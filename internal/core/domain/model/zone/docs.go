// Package zone models delivery territories.
//
// A Zone is defined by the streets it covers, the zones it borders and its
// priority class. Primary zones form the main serviceable area and may pool
// couriers with adjacent Primary zones; Secondary zones are outlying areas whose
// runs are never mixed with another zone's. A Secondary zone can declare
// preferred slots to cluster its deliveries into fewer, denser runs.
package zone
