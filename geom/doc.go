// Package geom provides the coordinate types shared by graphs and searches.
//
// Graph nodes live on an integer lattice (Int3) where one world unit equals
// Precision integer units. Raw query points are float Vec3 values in world units.
// All search costs are expressed in the same integer units as Int3, so a
// straight edge between two nodes one world unit apart costs Precision.
package geom
