// Package patch synthesizes minimal corrective patches from violations.
//
// # Shape
//
// Patches are strategic-merge shaped: plain objects merge field by field,
// and the pod-spec arrays (containers, initContainers, ephemeralContainers,
// volumes, ports) are expressed as entry lists carrying their merge key so
// kubectl matches existing entries instead of replacing the array. Fields
// the violations never touched do not appear in the patch.
//
// # Deletion
//
// A nil suggested value is written as an explicit JSON null, which deletes
// the field on apply. hostPath is the one field deleted this way, and its
// volume entry additionally gains an empty emptyDir source so the mounts
// referencing the volume keep working.
package patch
