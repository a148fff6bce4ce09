// Package world projects screen-space rectangles into the world units of a
// perspective scene, so that 3D meshes can track DOM-like layout boxes.
package world
