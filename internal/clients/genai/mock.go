package genai

// mockCourseJSON is the fallback course document used when the generative
// producer is unavailable. It goes through the same normalization pass as a
// real generation so both paths exercise identical code.
const mockCourseJSON = `{
  "title": "Introducción a la Astrofísica Moderna",
  "description": "Un viaje fascinante desde los átomos hasta las galaxias, diseñado para mentes curiosas.",
  "level": "Principiante",
  "tags": ["Ciencia", "Espacio", "Física"],
  "units": [
    {
      "id": "u1",
      "title": "Fundamentos del Cosmos",
      "description": "Entendiendo las bases del universo observable.",
      "lessons": [
        {
          "id": "l1",
          "title": "El Big Bang y la Expansión",
          "duration": "10 min",
          "isLocked": false,
          "blocks": [
            {
              "type": "image",
              "title": "La Singularidad Inicial",
              "content": "A conceptual artistic representation of the Big Bang singularity, exploding into a colorful nebula with glowing particles, dark background, cinematic lighting, 3d render style"
            },
            {
              "type": "theory",
              "title": "El Origen de Todo",
              "content": "La teoría del **Big Bang** es el modelo cosmológico predominante. Afirma que el universo estaba en un estado de muy alta densidad y temperatura y luego se expandió.\n\nEs fundamental entender que no fue una explosión *en* el espacio, sino una explosión *del* espacio mismo."
            },
            {
              "type": "example",
              "title": "Analogía del Globo",
              "content": "Imagina un globo desinflado con puntos dibujados en él. Al inflar el globo, los puntos se separan unos de otros. Ningún punto es el centro; el espacio mismo entre ellos es lo que crece."
            },
            {
              "type": "activity",
              "title": "Observa el Cielo",
              "content": "Esta noche, localiza tres estrellas visibles y anota su color aparente. El color delata la temperatura de la estrella."
            },
            {
              "type": "quiz",
              "title": "Comprueba tu conocimiento",
              "content": [
                {
                  "question": "¿Qué sucede con las galaxias según la expansión del universo?",
                  "options": [
                    { "id": "a", "text": "Se mueven a través del espacio", "isCorrect": false },
                    { "id": "b", "text": "El espacio entre ellas se expande", "isCorrect": true },
                    { "id": "c", "text": "Se están encogiendo", "isCorrect": false }
                  ],
                  "explanation": "Correcto. Las galaxias no se mueven 'a través' del espacio tanto como el espacio mismo se expande entre ellas."
                }
              ]
            }
          ]
        },
        {
          "id": "l2",
          "title": "Estrellas y Ciclos de Vida",
          "duration": "15 min",
          "isLocked": true,
          "blocks": []
        }
      ]
    },
    {
      "id": "u2",
      "title": "Agujeros Negros",
      "description": "Explorando los objetos más misteriosos.",
      "lessons": [
        {
          "id": "l3",
          "title": "El Horizonte de Sucesos",
          "duration": "20 min",
          "isLocked": true,
          "blocks": []
        }
      ]
    }
  ]
}`

// MockCourseDocument returns the raw fallback course document
func MockCourseDocument() []byte {
	return []byte(mockCourseJSON)
}
