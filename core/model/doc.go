// Package model holds the rota data types shared by the engine and the
// application layer: deacons, households with their visit frequency, the
// immutable RotaConfig a generation run consumes, and the VisitRecord it
// produces.
package model
